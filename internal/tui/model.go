package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/antigravity-labs/ultra-console/internal/render"
)

const welcomeText = "Antigravity Ultra\n\nType a message and press Enter to start a conversation."

// Controller is the slice of the session controller the UI drives.
type Controller interface {
	StartTurn(text, model string, useAgent bool) error
	NewConversation()
	LoadConversation(ctx context.Context, conversationID string) error
	DeleteConversation(ctx context.Context, conversationID string) error
	RefreshConversations(ctx context.Context) error
	Models(ctx context.Context) ([]string, error)
}

type entryKind int

const (
	entryUser entryKind = iota
	entryAssistant
	entryTool
	entryError
)

type entry struct {
	kind entryKind
	text string

	toolHandle render.ToolHandle
	toolName   string
	toolArgs   string
	toolResult string

	final    bool
	rendered string
}

type turnErrMsg struct{ err error }
type loadErrMsg struct{ err error }
type modelsMsg struct{ names []string }

type summaryItem struct{ s render.Summary }

func (i summaryItem) Title() string {
	if i.s.Title != "" {
		return i.s.Title
	}
	return i.s.ID
}

func (i summaryItem) Description() string {
	return fmt.Sprintf("%d msgs | %s", i.s.MessageCount, i.s.UpdatedAt)
}

func (i summaryItem) FilterValue() string { return i.s.Title + " " + i.s.ID }

// Model is the Bubble Tea model for the console.
type Model struct {
	controller Controller
	model      string
	useAgent   bool

	sidebar  list.Model
	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model

	entries []entry
	models  []string

	statusLabel  string
	statusActive bool
	focusSidebar bool
	notice       string

	width  int
	height int
}

// NewModel creates the console model. model and useAgent are the
// per-turn defaults from configuration.
func NewModel(controller Controller, model string, useAgent bool) Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 32, 20)
	l.Title = "Conversations"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	vp := viewport.New(60, 20)
	vp.SetContent(welcomeStyle.Render(welcomeText))

	ta := textarea.New()
	ta.Placeholder = "Send a message..."
	ta.SetHeight(3)
	ta.CharLimit = 0
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		controller:  controller,
		model:       model,
		useAgent:    useAgent,
		sidebar:     l,
		viewport:    vp,
		input:       ta,
		spinner:     sp,
		statusLabel: "Connecting...",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refreshCmd(), m.modelsCmd())
}

func (m Model) modelsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		names, err := m.controller.Models(ctx)
		if err != nil {
			return nil
		}
		return modelsMsg{names: names}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := m.controller.RefreshConversations(ctx); err != nil {
			return loadErrMsg{err: err}
		}
		return nil
	}
}

func (m Model) startTurnCmd(text string) tea.Cmd {
	return func() tea.Msg {
		if err := m.controller.StartTurn(text, m.model, m.useAgent); err != nil {
			return turnErrMsg{err: err}
		}
		return nil
	}
}

func (m Model) deleteCmd(conversationID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := m.controller.DeleteConversation(ctx, conversationID); err != nil {
			return loadErrMsg{err: err}
		}
		return nil
	}
}

func nextModel(models []string, current string) string {
	for i, name := range models {
		if name == current {
			return models[(i+1)%len(models)]
		}
	}
	return models[0]
}

func (m Model) loadCmd(conversationID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := m.controller.LoadConversation(ctx, conversationID); err != nil {
			return loadErrMsg{err: err}
		}
		return nil
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		sidebarWidth := 34
		m.sidebar.SetSize(sidebarWidth-2, msg.Height-2)
		m.viewport.Width = msg.Width - sidebarWidth - 2
		m.viewport.Height = msg.Height - m.input.Height() - 3
		m.input.SetWidth(msg.Width - sidebarWidth - 2)
		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.focusSidebar = !m.focusSidebar
			if m.focusSidebar {
				m.input.Blur()
			} else {
				m.input.Focus()
			}
			return m, nil
		case "ctrl+n":
			m.controller.NewConversation()
			return m, nil
		case "ctrl+p":
			if len(m.models) > 0 {
				m.model = nextModel(m.models, m.model)
				m.notice = "model: " + m.model
			}
			return m, nil
		case "ctrl+d":
			if m.focusSidebar {
				if item, ok := m.sidebar.SelectedItem().(summaryItem); ok {
					return m, m.deleteCmd(item.s.ID)
				}
			}
			return m, nil
		case "enter":
			if m.focusSidebar {
				if item, ok := m.sidebar.SelectedItem().(summaryItem); ok {
					return m, m.loadCmd(item.s.ID)
				}
				return m, nil
			}
			text := m.input.Value()
			if strings.TrimSpace(text) == "" {
				return m, nil
			}
			m.input.Reset()
			return m, m.startTurnCmd(text)
		}

	case userMsg:
		m.notice = ""
		m.entries = append(m.entries, entry{kind: entryUser, text: msg.text})
		m.refreshViewport()

	case beginMsg:
		m.entries = append(m.entries, entry{kind: entryAssistant})
		m.refreshViewport()

	case updateMsg:
		if i := m.lastAssistant(); i >= 0 {
			m.entries[i].text = msg.text
			m.refreshViewport()
		}

	case toolCallMsg:
		args, _ := json.MarshalIndent(msg.args, "", "  ")
		m.entries = append(m.entries, entry{
			kind:       entryTool,
			toolHandle: msg.handle,
			toolName:   msg.name,
			toolArgs:   string(args),
		})
		m.refreshViewport()

	case toolResultMsg:
		for i := range m.entries {
			if m.entries[i].kind == entryTool && m.entries[i].toolHandle == msg.handle {
				m.entries[i].toolResult = msg.result
				break
			}
		}
		m.refreshViewport()

	case finalizeMsg:
		if i := m.lastAssistant(); i >= 0 {
			m.entries[i].final = true
			m.entries[i].rendered = renderMarkdown(m.entries[i].text, m.viewport.Width)
			m.refreshViewport()
		}

	case errorMsg:
		if i := m.lastAssistant(); i >= 0 {
			m.entries[i] = entry{kind: entryError, text: msg.message}
		} else {
			m.entries = append(m.entries, entry{kind: entryError, text: msg.message})
		}
		m.refreshViewport()

	case historyMsg:
		m.entries = m.entries[:0]
		for _, hm := range msg.messages {
			kind := entryAssistant
			if hm.Role == "user" {
				kind = entryUser
			}
			m.entries = append(m.entries, entry{
				kind:     kind,
				text:     hm.Content,
				final:    true,
				rendered: renderMarkdown(hm.Content, m.viewport.Width),
			})
		}
		m.refreshViewport()

	case resetMsg:
		m.entries = m.entries[:0]
		m.viewport.SetContent(welcomeStyle.Render(welcomeText))

	case sidebarMsg:
		items := make([]list.Item, 0, len(msg.summaries))
		for _, s := range msg.summaries {
			items = append(items, summaryItem{s: s})
		}
		m.sidebar.SetItems(items)

	case statusMsg:
		m.statusLabel = msg.label
		m.statusActive = msg.active

	case modelsMsg:
		m.models = msg.names

	case turnErrMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
		}

	case loadErrMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	if m.focusSidebar {
		m.sidebar, cmd = m.sidebar.Update(msg)
	} else {
		m.input, cmd = m.input.Update(msg)
	}
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) lastAssistant() int {
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].kind == entryAssistant {
			return i
		}
	}
	return -1
}

func (m *Model) refreshViewport() {
	var b strings.Builder
	for _, e := range m.entries {
		switch e.kind {
		case entryUser:
			b.WriteString(userStyle.Render("You: ") + e.text)
		case entryAssistant:
			if e.final && e.rendered != "" {
				b.WriteString(e.rendered)
			} else {
				b.WriteString(assistantStyle.Render(e.text))
			}
		case entryTool:
			block := fmt.Sprintf("%s %s", e.toolName, e.toolArgs)
			if e.toolResult != "" {
				block += "\n→ " + e.toolResult
			}
			b.WriteString(toolStyle.Render(block))
		case entryError:
			b.WriteString(errorStyle.Render("Error: " + e.text))
		}
		b.WriteString("\n\n")
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func renderMarkdown(text string, width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return out
}

func (m Model) View() string {
	statusLine := statusIdleStyle.Render(m.statusLabel)
	if m.statusActive {
		statusLine = m.spinner.View() + " " + statusActiveStyle.Render(m.statusLabel)
	}
	if m.notice != "" {
		statusLine += "  " + errorStyle.Render(m.notice)
	}

	main := lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		m.input.View(),
		statusLine,
	)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(m.sidebar.View()),
		main,
	)
}
