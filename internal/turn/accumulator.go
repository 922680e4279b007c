package turn

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/antigravity-labs/ultra-console/internal/infrastructure/logging"
	"github.com/antigravity-labs/ultra-console/internal/render"
	"github.com/antigravity-labs/ultra-console/internal/shared/id"
)

// ErrTurnOpen is returned by Begin while a turn is already streaming.
var ErrTurnOpen = errors.New("a turn is already streaming")

// ToolInvocation is one call-and-optional-result pair within a turn.
// Result stays nil until a matching result frame arrives; at most one
// result is ever attached.
type ToolInvocation struct {
	Name      string
	Arguments map[string]interface{}
	Result    *string

	handle render.ToolHandle
}

// Turn is the single in-flight assistant response. It exists only while
// the accumulator is streaming.
type Turn struct {
	ID          id.TurnID
	text        strings.Builder
	Invocations []*ToolInvocation
}

// Text returns the raw accumulated response text, fences included.
func (t *Turn) Text() string { return t.text.String() }

// Accumulator owns the IDLE→STREAMING→IDLE lifecycle of the turn and
// translates protocol events into rendering instructions.
//
// Not safe for concurrent use: the session controller serializes every
// call behind its own lock.
type Accumulator struct {
	surface   render.Surface
	correlate Correlator
	log       *logging.Logger

	streaming bool
	turn      *Turn
}

// NewAccumulator creates an accumulator driving surface. A nil
// correlator selects the positional default.
func NewAccumulator(surface render.Surface, correlate Correlator, log *logging.Logger) *Accumulator {
	if correlate == nil {
		correlate = Positional{}
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Accumulator{surface: surface, correlate: correlate, log: log}
}

// Streaming reports whether a turn is open.
func (a *Accumulator) Streaming() bool { return a.streaming }

// Current returns the open turn, or nil when idle.
func (a *Accumulator) Current() *Turn { return a.turn }

// Begin opens a new turn and instructs the surface to create the
// placeholder message slot. Fails while a turn is already open.
func (a *Accumulator) Begin() error {
	if a.streaming {
		return ErrTurnOpen
	}
	a.turn = &Turn{ID: id.NewTurnID()}
	a.streaming = true
	a.surface.BeginAssistantMessage()
	a.log.Debug("turn opened", zap.String("turn_id", a.turn.ID.String()))
	return nil
}

// OnChunk appends a text fragment and re-renders the full filtered
// text. Ignored while idle.
func (a *Accumulator) OnChunk(content string) {
	if !a.streaming {
		return
	}
	a.turn.text.WriteString(content)
	a.surface.UpdateAssistantMessage(FilterToolFences(a.turn.Text()))
}

// OnToolCall appends a new invocation and shows its inline block.
// Ignored while idle.
func (a *Accumulator) OnToolCall(name string, args map[string]interface{}) {
	if !a.streaming {
		return
	}
	inv := &ToolInvocation{Name: name, Arguments: args}
	inv.handle = a.surface.AppendToolCall(name, args)
	a.turn.Invocations = append(a.turn.Invocations, inv)
	a.log.Debug("tool call",
		zap.String("turn_id", a.turn.ID.String()),
		zap.String("tool", name))
}

// OnToolResult attaches a result to the invocation chosen by the
// correlator. Results that cannot be placed are logged and dropped.
// Ignored while idle.
func (a *Accumulator) OnToolResult(name, result string) {
	if !a.streaming {
		return
	}
	inv := a.correlate.Attach(a.turn.Invocations, name, result)
	if inv == nil {
		a.log.Warn("tool result with no open invocation",
			zap.String("turn_id", a.turn.ID.String()),
			zap.String("tool", name))
		return
	}
	a.surface.SetToolResult(inv.handle, result)
}

// OnDone closes the turn and finalizes the rendered message.
func (a *Accumulator) OnDone() {
	if !a.streaming {
		return
	}
	a.log.Debug("turn done", zap.String("turn_id", a.turn.ID.String()))
	a.close()
	a.surface.FinalizeAssistantMessage()
}

// OnError closes the turn and replaces the in-progress message with the
// backend-reported error.
func (a *Accumulator) OnError(message string) {
	if !a.streaming {
		return
	}
	a.log.Warn("turn failed",
		zap.String("turn_id", a.turn.ID.String()),
		zap.String("message", message))
	a.close()
	a.surface.ShowAssistantError(message)
}

// Abort force-closes an open turn with a client-synthesized error, used
// when the transport drops mid-stream. No-op while idle.
func (a *Accumulator) Abort(message string) {
	if !a.streaming {
		return
	}
	a.log.Warn("turn aborted",
		zap.String("turn_id", a.turn.ID.String()),
		zap.String("message", message))
	a.close()
	a.surface.ShowAssistantError(message)
}

func (a *Accumulator) close() {
	a.streaming = false
	a.turn = nil
}
