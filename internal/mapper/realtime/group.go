package realtime

import "strings"

// groupAudio walks events in arrival order and synthesizes one combined
// event per audio turn: input appends are folded on commit, output deltas on
// done. Combined events are appended in addition to the originals so
// provenance survives while the reducer gets a single complete-audio record.
// Groups still open at end of stream are flushed with the first event's
// metadata.
func groupAudio(events []Event) []Event {
	result := make([]Event, 0, len(events))
	var inputGroup []Event
	var outputGroup []Event

	for _, ev := range events {
		switch {
		case ev.Content.Type == EventResponseAudioDelta:
			outputGroup = append(outputGroup, ev)
		case ev.Content.Type == EventResponseAudioDone && len(outputGroup) > 0:
			result = append(result, combineGroup(outputGroup, deltaChunk, EventResponseAudioCombined, false))
			outputGroup = nil
		case ev.Content.Type == EventInputAudioAppend:
			inputGroup = append(inputGroup, ev)
		case ev.Content.Type == EventInputAudioCommit && len(inputGroup) > 0:
			result = append(result, combineGroup(inputGroup, audioChunk, EventInputAudioCombined, false))
			inputGroup = nil
		}
		result = append(result, ev)
	}

	if len(inputGroup) > 0 {
		result = append(result, combineGroup(inputGroup, audioChunk, EventInputAudioCombined, true))
	}
	if len(outputGroup) > 0 {
		result = append(result, combineGroup(outputGroup, deltaChunk, EventResponseAudioCombined, true))
	}

	return result
}

func audioChunk(c Content) string { return c.Audio }
func deltaChunk(c Content) string { return c.Delta }

// combineGroup concatenates every base64 chunk of the group in arrival
// order. In-stream combines carry the terminal event's metadata; end-of-
// stream flushes fall back to the first event's.
func combineGroup(group []Event, chunk func(Content) string, combinedType string, fromFirst bool) Event {
	var sb strings.Builder
	for _, ev := range group {
		sb.WriteString(chunk(ev.Content))
	}

	meta := group[len(group)-1]
	if fromFirst {
		meta = group[0]
	}

	return Event{
		From:      meta.From,
		Timestamp: meta.Timestamp,
		Content: Content{
			Type:  combinedType,
			Audio: sb.String(),
		},
	}
}
