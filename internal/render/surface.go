package render

// ToolHandle identifies one inline tool block within the in-progress
// assistant message, returned by AppendToolCall and consumed by
// SetToolResult.
type ToolHandle int

// Message is one entry of a conversation transcript.
type Message struct {
	Role    string
	Content string
}

// Summary is one sidebar entry for a past conversation.
type Summary struct {
	ID           string
	Title        string
	UpdatedAt    string
	MessageCount int
}

// Surface is the rendering capability consumed by the protocol core.
//
// Calls arrive strictly serialized: the session controller holds its own
// lock across every invocation, so implementations do not need to be
// safe for concurrent use by the core (they may still need internal
// synchronization if they bridge to another event loop).
type Surface interface {
	// AppendUserMessage displays the user's outgoing message verbatim.
	AppendUserMessage(text string)

	// BeginAssistantMessage creates the placeholder slot for the
	// assistant's streaming reply.
	BeginAssistantMessage()

	// UpdateAssistantMessage replaces the in-progress reply with the
	// full accumulated (and already fence-filtered) text.
	UpdateAssistantMessage(text string)

	// AppendToolCall shows a new inline tool block with the tool name
	// and a formatted dump of its arguments.
	AppendToolCall(name string, args map[string]interface{}) ToolHandle

	// SetToolResult attaches a result to a previously appended block.
	SetToolResult(handle ToolHandle, result string)

	// FinalizeAssistantMessage marks the reply complete (markdown
	// rendering, syntax highlighting).
	FinalizeAssistantMessage()

	// ShowAssistantError replaces the in-progress reply with an error
	// display.
	ShowAssistantError(message string)

	// ShowHistory replaces all content with a loaded transcript.
	ShowHistory(messages []Message)

	// ResetToWelcome clears all content back to the empty state.
	ResetToWelcome()
}

// Sidebar receives conversation-summary refreshes.
type Sidebar interface {
	ShowConversations(summaries []Summary)
}

// StatusView receives projected status updates.
type StatusView interface {
	SetStatus(label string, active bool)
}
