package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/antigravity-labs/ultra-console/internal/api"
	"github.com/antigravity-labs/ultra-console/internal/infrastructure/logging"
	"github.com/antigravity-labs/ultra-console/internal/protocol"
	"github.com/antigravity-labs/ultra-console/internal/render"
	"github.com/antigravity-labs/ultra-console/internal/status"
	"github.com/antigravity-labs/ultra-console/internal/transport"
	"github.com/antigravity-labs/ultra-console/internal/turn"
)

// ErrEmptyMessage is returned by StartTurn for blank input.
var ErrEmptyMessage = errors.New("session: empty message")

const refreshTimeout = 10 * time.Second

// Sender is the outbound half of the transport consumed here.
type Sender interface {
	Send(v interface{}) error
	State() transport.State
}

// ReadAPI is the request/response surface of the backend consumed here.
type ReadAPI interface {
	ListConversations(ctx context.Context) ([]api.ConversationSummary, error)
	GetConversation(ctx context.Context, conversationID string) (*api.Conversation, error)
	DeleteConversation(ctx context.Context, conversationID string) error
	ListModels(ctx context.Context) (*api.ModelCatalog, error)
}

// Session is the explicit per-process client state. The conversation
// identifier is assigned by the backend on the first turn and cleared
// when the user starts a new conversation.
type Session struct {
	ConversationID string
}

// Controller is the top-level orchestrator. It implements
// transport.Listener for the session's connection and protocol.Handler
// for dispatched envelopes.
type Controller struct {
	transport  Sender
	surface    render.Surface
	sidebar    render.Sidebar
	statusView render.StatusView
	readAPI    ReadAPI
	log        *logging.Logger

	mu         sync.Mutex
	session    Session
	acc        *turn.Accumulator
	dispatcher *protocol.Dispatcher
}

// Options configures a Controller.
type Options struct {
	Transport  Sender
	Surface    render.Surface
	Sidebar    render.Sidebar
	StatusView render.StatusView
	ReadAPI    ReadAPI
	Correlator turn.Correlator // nil selects positional correlation
	Log        *logging.Logger
}

// NewController wires a controller from its collaborators.
func NewController(opts Options) *Controller {
	if opts.Log == nil {
		opts.Log = logging.NewNop()
	}
	c := &Controller{
		transport:  opts.Transport,
		surface:    opts.Surface,
		sidebar:    opts.Sidebar,
		statusView: opts.StatusView,
		readAPI:    opts.ReadAPI,
		log:        opts.Log,
		acc:        turn.NewAccumulator(opts.Surface, opts.Correlator, opts.Log),
	}
	c.dispatcher = protocol.NewDispatcher(c, opts.Log)
	return c
}

// StartTurn displays the user's message, opens a new turn, and sends
// the outbound request. No-op (with error) for blank text, while a turn
// is already open, or while disconnected.
func (c *Controller) StartTurn(text, model string, useAgent bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}
	if c.acc.Streaming() {
		return turn.ErrTurnOpen
	}
	if c.transport.State() != transport.StateReady {
		return transport.ErrNotConnected
	}

	req := protocol.Request{
		Message:  text,
		Model:    model,
		UseAgent: useAgent,
	}
	// A nil conversation id asks the backend for a new conversation.
	if c.session.ConversationID != "" {
		convID := c.session.ConversationID
		req.ConversationID = &convID
	}

	c.surface.AppendUserMessage(text)
	if err := c.acc.Begin(); err != nil {
		return err
	}
	if err := c.transport.Send(req); err != nil {
		c.acc.Abort("failed to send message: " + err.Error())
		return err
	}
	return nil
}

// NewConversation clears the conversation identifier and resets the
// surface. The next turn creates a fresh conversation on the backend.
// Does not touch an in-flight turn; callers invoke this only when idle.
func (c *Controller) NewConversation() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.ConversationID = ""
	c.surface.ResetToWelcome()
}

// LoadConversation replaces the surface content with the stored history
// of conversationID and makes it the current conversation.
func (c *Controller) LoadConversation(ctx context.Context, conversationID string) error {
	conv, err := c.readAPI.GetConversation(ctx, conversationID)
	if err != nil {
		return err
	}

	history := make([]render.Message, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		history = append(history, render.Message{Role: m.Role, Content: m.Content})
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.ConversationID = conversationID
	c.surface.ShowHistory(history)
	return nil
}

// DeleteConversation removes a conversation from the backend. Deleting
// the current conversation resets the session to a fresh one.
func (c *Controller) DeleteConversation(ctx context.Context, conversationID string) error {
	if err := c.readAPI.DeleteConversation(ctx, conversationID); err != nil {
		return err
	}

	c.mu.Lock()
	if c.session.ConversationID == conversationID {
		c.session.ConversationID = ""
		c.surface.ResetToWelcome()
	}
	c.mu.Unlock()

	return c.RefreshConversations(ctx)
}

// Models returns the backend's selectable model names, default first.
func (c *Controller) Models(ctx context.Context) ([]string, error) {
	catalog, err := c.readAPI.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(catalog.Models))
	if catalog.Default != "" {
		names = append(names, catalog.Default)
	}
	for _, m := range catalog.Models {
		if m.Name != catalog.Default {
			names = append(names, m.Name)
		}
	}
	return names, nil
}

// RefreshConversations fetches the summary list and hands it to the
// sidebar.
func (c *Controller) RefreshConversations(ctx context.Context) error {
	if c.sidebar == nil {
		return nil
	}
	summaries, err := c.readAPI.ListConversations(ctx)
	if err != nil {
		return err
	}
	out := make([]render.Summary, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, render.Summary{
			ID:           s.ID,
			Title:        s.Title,
			UpdatedAt:    s.UpdatedAt,
			MessageCount: s.MessageCount,
		})
	}
	c.sidebar.ShowConversations(out)
	return nil
}

// ConversationID returns the current conversation identifier, empty
// before the backend has assigned one.
func (c *Controller) ConversationID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.ConversationID
}

// Streaming reports whether a turn is open.
func (c *Controller) Streaming() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.acc.Streaming()
}

// OnFrame implements transport.Listener.
func (c *Controller) OnFrame(frame []byte) {
	c.dispatcher.Dispatch(frame)
}

// OnStateChange implements transport.Listener. A drop during a turn
// force-closes it: the backend will not resume an in-flight response
// on the next connection.
func (c *Controller) OnStateChange(state transport.State) {
	c.mu.Lock()
	switch state {
	case transport.StateReady:
		c.project(status.Connected)
	case transport.StateDisconnected:
		c.acc.Abort("connection to the backend was lost")
		c.project(status.Disconnected)
	}
	c.mu.Unlock()
}

// ---- protocol.Handler ----

func (c *Controller) HandleConversationID(conversationID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.ConversationID = conversationID
	c.log.Debug("conversation assigned", zap.String("conversation_id", conversationID))
}

func (c *Controller) HandleChunk(content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.acc.OnChunk(content)
}

func (c *Controller) HandleToolCall(name string, args map[string]interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.acc.OnToolCall(name, args)
}

func (c *Controller) HandleToolResult(name, result string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.acc.OnToolResult(name, result)
}

func (c *Controller) HandleStatus(s protocol.Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.project(status.State(s))
}

func (c *Controller) HandleDone() {
	c.mu.Lock()
	c.acc.OnDone()
	c.project(status.Ready)
	c.mu.Unlock()

	// The turn may have created the conversation or changed its title.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		if err := c.RefreshConversations(ctx); err != nil {
			c.log.Warn("conversation refresh failed", zap.Error(err))
		}
	}()
}

func (c *Controller) HandleError(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.acc.OnError(message)
	c.project(status.Error)
}

// project pushes a status projection to the view. Callers hold c.mu.
func (c *Controller) project(s status.State) {
	if c.statusView == nil {
		return
	}
	p := status.Project(s)
	c.statusView.SetStatus(p.Label, p.Active)
}
