package realtime

import (
	"encoding/json"

	"github.com/calder-ai/relaycore/internal/mapper"
)

// accumulator is the carry-over state of the message construction pass: one
// tentative in-progress message per channel, plus the set of logically
// deleted item ids. The delete set is built from the whole stream before
// reduction so a delete marks item messages emitted both before and after
// it.
type accumulator struct {
	userTentative        *mapper.Message
	targetTentative      *mapper.Message
	userAudioTentative   *mapper.Message
	targetAudioTentative *mapper.Message

	deleted map[string]struct{}
}

func newAccumulator(events []Event) *accumulator {
	deleted := make(map[string]struct{})
	for _, ev := range events {
		if ev.Content.Type == EventItemDelete && ev.Content.ItemID != "" {
			deleted[ev.Content.ItemID] = struct{}{}
		}
	}
	return &accumulator{deleted: deleted}
}

func (a *accumulator) isDeleted(itemID string) bool {
	if itemID == "" {
		return false
	}
	_, ok := a.deleted[itemID]
	return ok
}

// reduce folds one event into the accumulator and returns the completed
// message, if the event closes one. "Started" events open a tentative slot
// without emitting; completion events merge the tentative state with the
// payload and clear the slot. Unknown event kinds return nil.
func (a *accumulator) reduce(ev Event) *mapper.Message {
	switch ev.Content.Type {
	case EventInputAudioSpeechStart:
		if a.userTentative == nil {
			a.userTentative = &mapper.Message{
				Role:           mapper.RoleUser,
				Type:           mapper.TypeAudio,
				StartTimestamp: ev.Timestamp,
				TriggerEventID: ev.Content.Type,
			}
		}
		return nil

	case EventInputAudioAppend:
		if a.userAudioTentative == nil {
			a.userAudioTentative = &mapper.Message{
				Role:           mapper.RoleUser,
				Type:           mapper.TypeAudio,
				StartTimestamp: ev.Timestamp,
				TriggerEventID: ev.Content.Type,
			}
		}
		return nil

	case EventInputAudioCombined:
		msg := closeTentative(&a.userAudioTentative)
		msg.Role = mapper.RoleUser
		msg.Type = mapper.TypeAudio
		msg.Content = "Input Audio"
		msg.AudioData = ev.Content.Audio
		msg.Timestamp = ev.Timestamp
		msg.EndingEventID = ev.Content.Type
		return msg

	case EventResponseAudioDelta:
		if a.targetAudioTentative == nil {
			a.targetAudioTentative = &mapper.Message{
				Role:           mapper.RoleAssistant,
				Type:           mapper.TypeAudio,
				StartTimestamp: ev.Timestamp,
				TriggerEventID: ev.Content.Type,
			}
		}
		return nil

	case EventResponseAudioCombined:
		msg := closeTentative(&a.targetAudioTentative)
		msg.Role = mapper.RoleAssistant
		msg.Type = mapper.TypeAudio
		msg.Content = "Assistant Audio"
		msg.AudioData = ev.Content.Audio
		msg.Timestamp = ev.Timestamp
		msg.EndingEventID = ev.Content.Type
		return msg

	case EventResponseCreate:
		if ev.Content.Response == nil || ev.Content.Response.Instructions == "" {
			return nil
		}
		return &mapper.Message{
			Role:      mapper.RoleUser,
			Type:      mapper.TypeText,
			Content:   ev.Content.Response.Instructions,
			Timestamp: ev.Timestamp,
		}

	case EventResponseCreated:
		if a.targetTentative == nil {
			role := mapper.RoleUser
			if ev.From == OriginTarget {
				role = mapper.RoleAssistant
			}
			a.targetTentative = &mapper.Message{
				Role:           role,
				Type:           mapper.TypeAudio,
				StartTimestamp: ev.Timestamp,
				TriggerEventID: ev.Content.Type,
			}
		}
		return nil

	case EventTranscriptionCompleted:
		msg := closeTentative(&a.userTentative)
		if ev.Content.Transcript == "" {
			return nil
		}
		msg.Role = mapper.RoleUser
		msg.Type = mapper.TypeAudio
		msg.Content = ev.Content.Transcript
		if ev.Content.Item != nil && len(ev.Content.Item.Content) > 0 {
			msg.AudioData = ev.Content.Item.Content[0].Audio
		}
		msg.Timestamp = ev.Timestamp
		msg.EndingEventID = ev.Content.Type
		return msg

	case EventResponseDone:
		return a.reduceResponseDone(ev)

	case EventItemCreate:
		return a.reduceItemCreate(ev)

	case EventSessionUpdate:
		raw := ev.Content.Raw()
		if raw == nil {
			return nil
		}
		return &mapper.Message{
			Role:      mapper.RoleUser,
			Type:      mapper.TypeText,
			Content:   string(raw),
			Timestamp: ev.Timestamp,
		}

	case EventItemDelete:
		// Tracked up front in the delete set; emits nothing
		return nil

	default:
		return nil
	}
}

func (a *accumulator) reduceResponseDone(ev Event) *mapper.Message {
	if ev.Content.Response == nil || len(ev.Content.Response.Output) == 0 {
		return nil
	}
	output := ev.Content.Response.Output[0]

	if len(output.Content) > 0 {
		part := output.Content[0]
		if part.Text == "" && part.Transcript == "" {
			return nil
		}
		msg := closeTentative(&a.targetTentative)
		msg.Role = mapper.RoleAssistant
		msg.Type = mapper.TypeText
		msg.Content = part.Text
		if part.Text == "" {
			msg.Type = mapper.TypeAudio
			msg.Content = part.Transcript
		}
		msg.AudioData = part.Audio
		msg.Timestamp = ev.Timestamp
		msg.EndingEventID = ev.Content.Type
		return msg
	}

	if output.Type == "function_call" && output.Name != "" && output.Arguments != "" {
		return &mapper.Message{
			Role:       mapper.RoleAssistant,
			Type:       mapper.TypeFunctionCall,
			ToolCallID: output.CallID,
			ToolCalls: []mapper.ToolCall{{
				Name:      output.Name,
				Arguments: parseArguments(output.Arguments),
			}},
			Timestamp: ev.Timestamp,
		}
	}

	return nil
}

func (a *accumulator) reduceItemCreate(ev Event) *mapper.Message {
	item := ev.Content.Item
	if item == nil {
		return nil
	}

	if item.Type == "function_call_output" && item.Output != "" {
		return &mapper.Message{
			Role:       mapper.RoleUser,
			Type:       mapper.TypeFunction,
			ToolCallID: item.CallID,
			ToolCalls: []mapper.ToolCall{{
				Arguments: parseArguments(item.Output),
			}},
			Timestamp: ev.Timestamp,
			ID:        item.ID,
			Deleted:   a.isDeleted(item.ID),
		}
	}

	if item.Type == "message" && len(item.Content) > 0 {
		switch item.Content[0].Type {
		case "input_audio":
			return &mapper.Message{
				Role:      mapper.RoleUser,
				Type:      mapper.TypeAudio,
				Content:   item.Content[0].Transcript,
				AudioData: item.Content[0].Audio,
				Timestamp: ev.Timestamp,
				ID:        item.ID,
				Deleted:   a.isDeleted(item.ID),
			}
		case "input_text":
			return &mapper.Message{
				Role:      mapper.RoleUser,
				Type:      mapper.TypeText,
				Content:   item.Content[0].Text,
				Timestamp: ev.Timestamp,
				ID:        item.ID,
				Deleted:   a.isDeleted(item.ID),
			}
		}
	}

	return nil
}

// closeTentative takes ownership of a tentative slot, clearing it. When no
// message was opened the completion payload still yields a message, just
// without start metadata.
func closeTentative(slot **mapper.Message) *mapper.Message {
	msg := *slot
	*slot = nil
	if msg == nil {
		return &mapper.Message{}
	}
	return msg
}

// parseArguments keeps function arguments structured when they are valid
// JSON and degrades to the raw string otherwise. Never fails.
func parseArguments(s string) any {
	var parsed any
	if err := json.Unmarshal([]byte(s), &parsed); err != nil {
		return s
	}
	return parsed
}
