package api

// ConversationSummary is one sidebar entry.
type ConversationSummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	UpdatedAt    string `json:"updated_at"`
	MessageCount int    `json:"message_count"`
}

// Message is one entry of a conversation's history.
type Message struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// Conversation is a full transcript.
type Conversation struct {
	ConversationID string    `json:"conversation_id"`
	Messages       []Message `json:"messages"`
}

// ModelInfo describes one selectable model.
type ModelInfo struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"`
	ContextLength int    `json:"context_length"`
	Speed         string `json:"speed"`
}

// ModelCatalog is the backend's model listing.
type ModelCatalog struct {
	Models  []ModelInfo `json:"models"`
	Default string      `json:"default"`
}

// Health is the backend health report.
type Health struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Version  string `json:"version"`
	Database string `json:"database"`
}

type conversationList struct {
	Conversations []ConversationSummary `json:"conversations"`
}

type createConversationRequest struct {
	Title string `json:"title"`
}

type createConversationResponse struct {
	ConversationID string `json:"conversation_id"`
	Title          string `json:"title"`
}
