// Package status maps protocol and transport status signals to the
// small set of user-facing states shown in the console footer.
package status

import "github.com/antigravity-labs/ultra-console/internal/protocol"

// State is the union of agent statuses reported over the wire and the
// transport states synthesized by the client.
type State string

const (
	Thinking     State = State(protocol.StatusThinking)
	ToolCalling  State = State(protocol.StatusToolCalling)
	Ready        State = State(protocol.StatusReady)
	Connected    State = "connected"
	Disconnected State = "disconnected"
	Error        State = "error"
)

// Projection is the user-facing rendering of a State. Active drives the
// busy indicator.
type Projection struct {
	Label  string
	Active bool
}

// Project maps a state to its user-facing projection. Pure: every call
// is independent of prior calls.
func Project(s State) Projection {
	switch s {
	case Thinking:
		return Projection{Label: "Thinking...", Active: true}
	case ToolCalling:
		return Projection{Label: "Calling tools...", Active: true}
	case Ready:
		return Projection{Label: "Ready", Active: false}
	case Connected:
		return Projection{Label: "Connected", Active: false}
	case Disconnected:
		return Projection{Label: "Disconnected, retrying...", Active: false}
	case Error:
		return Projection{Label: "Connection error", Active: false}
	default:
		return Projection{Label: string(s), Active: false}
	}
}
