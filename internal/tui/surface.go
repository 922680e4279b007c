package tui

import (
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/antigravity-labs/ultra-console/internal/render"
)

// Bubble Tea messages carrying rendering instructions from the core.
type (
	userMsg     struct{ text string }
	beginMsg    struct{}
	updateMsg   struct{ text string }
	toolCallMsg struct {
		handle render.ToolHandle
		name   string
		args   map[string]interface{}
	}
	toolResultMsg struct {
		handle render.ToolHandle
		result string
	}
	finalizeMsg struct{}
	errorMsg    struct{ message string }
	historyMsg  struct{ messages []render.Message }
	resetMsg    struct{}
	sidebarMsg  struct{ summaries []render.Summary }
	statusMsg   struct {
		label  string
		active bool
	}
)

// Surface bridges core rendering instructions into a running Bubble Tea
// program. Send preserves ordering, so instructions arrive in the model
// in the order the core issued them.
//
// Attach must run before the transport connects; instructions received
// while unattached are dropped.
type Surface struct {
	program    atomic.Pointer[tea.Program]
	nextHandle atomic.Int64
}

// NewSurface creates an unattached surface.
func NewSurface() *Surface {
	return &Surface{}
}

// Attach binds the surface to a program.
func (s *Surface) Attach(program *tea.Program) {
	s.program.Store(program)
}

func (s *Surface) send(msg tea.Msg) {
	if p := s.program.Load(); p != nil {
		p.Send(msg)
	}
}

func (s *Surface) AppendUserMessage(text string) {
	s.send(userMsg{text: text})
}

func (s *Surface) BeginAssistantMessage() {
	s.send(beginMsg{})
}

func (s *Surface) UpdateAssistantMessage(text string) {
	s.send(updateMsg{text: text})
}

func (s *Surface) AppendToolCall(name string, args map[string]interface{}) render.ToolHandle {
	h := render.ToolHandle(s.nextHandle.Add(1))
	s.send(toolCallMsg{handle: h, name: name, args: args})
	return h
}

func (s *Surface) SetToolResult(handle render.ToolHandle, result string) {
	s.send(toolResultMsg{handle: handle, result: result})
}

func (s *Surface) FinalizeAssistantMessage() {
	s.send(finalizeMsg{})
}

func (s *Surface) ShowAssistantError(message string) {
	s.send(errorMsg{message: message})
}

func (s *Surface) ShowHistory(messages []render.Message) {
	s.send(historyMsg{messages: messages})
}

func (s *Surface) ResetToWelcome() {
	s.send(resetMsg{})
}

func (s *Surface) ShowConversations(summaries []render.Summary) {
	s.send(sidebarMsg{summaries: summaries})
}

func (s *Surface) SetStatus(label string, active bool) {
	s.send(statusMsg{label: label, active: active})
}
