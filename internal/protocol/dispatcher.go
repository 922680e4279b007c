package protocol

import (
	"go.uber.org/zap"

	"github.com/antigravity-labs/ultra-console/internal/infrastructure/logging"
)

// Handler receives classified inbound envelopes. Exactly one method is
// invoked per frame.
type Handler interface {
	HandleConversationID(id string)
	HandleChunk(content string)
	HandleToolCall(name string, args map[string]interface{})
	HandleToolResult(name, result string)
	HandleStatus(status Status)
	HandleDone()
	HandleError(message string)
}

// Dispatcher decodes raw frames and routes them to a Handler.
type Dispatcher struct {
	handler Handler
	log     *logging.Logger
}

// NewDispatcher creates a dispatcher routing to handler.
func NewDispatcher(handler Handler, log *logging.Logger) *Dispatcher {
	if log == nil {
		log = logging.NewNop()
	}
	return &Dispatcher{handler: handler, log: log}
}

// Dispatch classifies one raw frame and invokes its handler. Malformed
// frames are dropped with a diagnostic; unknown kinds are ignored.
func (d *Dispatcher) Dispatch(frame []byte) {
	env, err := Decode(frame)
	if err != nil {
		d.log.Warn("dropping malformed frame", zap.Error(err), zap.Int("bytes", len(frame)))
		return
	}

	switch env.Type {
	case KindConversationID:
		d.handler.HandleConversationID(env.ConversationID)
	case KindChunk:
		d.handler.HandleChunk(env.Content)
	case KindToolCall:
		d.handler.HandleToolCall(env.Name, env.Arguments)
	case KindToolResult:
		d.handler.HandleToolResult(env.Name, env.Result)
	case KindStatus:
		d.handler.HandleStatus(env.Status)
	case KindDone:
		d.handler.HandleDone()
	case KindError:
		d.handler.HandleError(env.Message)
	default:
		// Forward compatibility: newer backends may emit kinds this
		// client does not know about.
		d.log.Debug("ignoring unknown frame type", zap.String("type", string(env.Type)))
	}
}
