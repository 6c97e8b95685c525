// Package realtime reconstructs an ordered, audio-aware transcript from a
// captured duplex event stream. The whole session log is treated as already
// materialized; mapping is a pure two-pass fold over the event slice.
package realtime

import (
	"encoding/json"
	"time"
)

// Origin identifies which side of the duplex socket produced an event.
type Origin string

const (
	OriginClient Origin = "client"
	OriginTarget Origin = "target"
)

// Duplex event kinds consumed by the mapper. Kinds not listed here are
// carried in the log but dropped during message construction.
const (
	EventSessionUpdate          = "session.update"
	EventInputAudioAppend       = "input_audio_buffer.append"
	EventInputAudioCommit       = "input_audio_buffer.commit"
	EventInputAudioSpeechStart  = "input_audio_buffer.speech_started"
	EventItemCreate             = "conversation.item.create"
	EventItemDelete             = "conversation.item.delete"
	EventResponseCreate         = "response.create"
	EventResponseCreated        = "response.created"
	EventResponseDone           = "response.done"
	EventResponseAudioDelta     = "response.audio.delta"
	EventResponseAudioDone      = "response.audio.done"
	EventTranscriptionCompleted = "conversation.item.input_audio_transcription.completed"

	// Synthetic kinds emitted by the audio grouping pass. They are appended
	// alongside the raw deltas, not substituted for them.
	EventInputAudioCombined    = "input_audio_buffer.combined"
	EventResponseAudioCombined = "response.audio.combined"
)

// Event is one captured socket frame.
type Event struct {
	From      Origin    `json:"from"`
	Timestamp time.Time `json:"timestamp"`
	Content   Content   `json:"content"`
}

// Content is the protocol payload of an event. Only the fields relevant to
// transcript construction are modelled; everything else stays in the raw
// bytes for provenance.
type Content struct {
	Type string `json:"type"`

	Response *Response       `json:"response,omitempty"`
	Session  json.RawMessage `json:"session,omitempty"`
	Item     *Item           `json:"item,omitempty"`

	EventID string `json:"event_id,omitempty"`
	ItemID  string `json:"item_id,omitempty"`

	Transcript string `json:"transcript,omitempty"`
	Audio      string `json:"audio,omitempty"`
	Delta      string `json:"delta,omitempty"`

	raw json.RawMessage
}

func (c *Content) UnmarshalJSON(b []byte) error {
	type alias Content
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*c = Content(a)
	c.raw = append(json.RawMessage(nil), b...)
	return nil
}

// Raw returns the original payload bytes, falling back to re-encoding for
// programmatically built events.
func (c Content) Raw() []byte {
	if c.raw != nil {
		return c.raw
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil
	}
	return b
}

// Response is the payload of response.create / response.done events.
type Response struct {
	Object       string       `json:"object,omitempty"`
	Modalities   []string     `json:"modalities,omitempty"`
	Instructions string       `json:"instructions,omitempty"`
	Output       []OutputItem `json:"output,omitempty"`
}

// OutputItem is one entry of a response output: a message or a function call.
type OutputItem struct {
	Type    string        `json:"type,omitempty"`
	ID      string        `json:"id,omitempty"`
	Object  string        `json:"object,omitempty"`
	Content []ContentPart `json:"content,omitempty"`

	Name      string `json:"name,omitempty"`
	CallID    string `json:"call_id,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

// ContentPart is one modality slice of an output item.
type ContentPart struct {
	Type       string `json:"type,omitempty"`
	Text       string `json:"text,omitempty"`
	Audio      string `json:"audio,omitempty"`
	Transcript string `json:"transcript,omitempty"`
}

// Item is the payload of conversation.item.create events.
type Item struct {
	ID      string        `json:"id,omitempty"`
	Type    string        `json:"type,omitempty"`
	Name    string        `json:"name,omitempty"`
	CallID  string        `json:"call_id,omitempty"`
	Output  string        `json:"output,omitempty"`
	Content []ContentPart `json:"content,omitempty"`
}
