// Package mapper defines the provider-agnostic chat record produced by every
// wire-format adapter. The rendering layer consumes these uniformly,
// regardless of which provider protocol they came from.
package mapper

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type MessageType string

const (
	TypeText         MessageType = "text"
	TypeAudio        MessageType = "audio"
	TypeFunctionCall MessageType = "functionCall"
	TypeFunction     MessageType = "function"
)

// ToolCall carries a function name and its arguments. Arguments holds parsed
// JSON when the wire value was valid JSON, otherwise the raw string.
type ToolCall struct {
	Name      string `json:"name,omitempty"`
	Arguments any    `json:"arguments,omitempty"`
}

// Message is one canonical transcript entry.
//
// Deleted is a visibility flag: logically removed messages stay in the
// transcript so already-delivered items are never erased.
type Message struct {
	Role    Role        `json:"role"`
	Type    MessageType `json:"_type"`
	Content string      `json:"content,omitempty"`

	// Base64 payload for audio messages
	AudioData string `json:"audio_data,omitempty"`

	// Source item id, for item-identified messages
	ID string `json:"id,omitempty"`

	ToolCallID string     `json:"tool_call_id,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`

	Timestamp      time.Time `json:"timestamp,omitzero"`
	StartTimestamp time.Time `json:"start_timestamp,omitzero"`

	TriggerEventID string `json:"trigger_event_id,omitempty"`
	EndingEventID  string `json:"ending_event_id,omitempty"`

	Deleted bool `json:"deleted,omitempty"`
}

// SortKey returns the timestamp ordering key: the start timestamp when the
// message was opened by a started event, else the completion timestamp.
func (m *Message) SortKey() time.Time {
	if !m.StartTimestamp.IsZero() {
		return m.StartTimestamp
	}
	return m.Timestamp
}
