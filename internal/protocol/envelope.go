package protocol

import (
	"encoding/json"
	"fmt"
)

// Kind discriminates inbound envelopes.
type Kind string

const (
	KindConversationID Kind = "conversation_id"
	KindChunk          Kind = "chunk"
	KindToolCall       Kind = "tool_call"
	KindToolResult     Kind = "tool_result"
	KindStatus         Kind = "status"
	KindDone           Kind = "done"
	KindError          Kind = "error"
)

// Status values carried by status envelopes.
type Status string

const (
	StatusThinking    Status = "thinking"
	StatusToolCalling Status = "tool_calling"
	StatusReady       Status = "ready"
)

// Envelope is one decoded inbound frame. Only the fields relevant to
// its Kind are populated.
type Envelope struct {
	Type           Kind                   `json:"type"`
	ConversationID string                 `json:"conversation_id,omitempty"`
	Content        string                 `json:"content,omitempty"`
	Name           string                 `json:"name,omitempty"`
	Arguments      map[string]interface{} `json:"arguments,omitempty"`
	Result         string                 `json:"result,omitempty"`
	Status         Status                 `json:"status,omitempty"`
	Message        string                 `json:"message,omitempty"`
}

// Request is the single outbound frame shape. A nil ConversationID asks
// the backend to create a new conversation. Immutable once sent.
type Request struct {
	Message        string  `json:"message"`
	ConversationID *string `json:"conversation_id"`
	Model          string  `json:"model"`
	UseAgent       bool    `json:"use_agent"`
}

// Decode parses one inbound frame. A frame without a type field decodes
// to an Envelope with empty Kind, which the dispatcher ignores.
func Decode(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode frame: %w", err)
	}
	return env, nil
}
