package turn

// Correlator attaches an incoming tool result to one of the turn's
// invocations. The wire protocol carries no identifier on tool_result
// frames, so correlation is a strategy rather than a lookup; a future
// identifier-bearing protocol plugs in here without touching the
// accumulator.
type Correlator interface {
	// Attach picks the invocation the result belongs to and returns it,
	// or nil when no invocation can accept the result.
	Attach(invocations []*ToolInvocation, name, result string) *ToolInvocation
}

// Positional correlates by arrival order: the result goes to the most
// recently appended invocation that has none yet. This matches the
// backend, which emits strict call/result pairs for a single turn. It
// would misattribute results if the backend ever interleaved concurrent
// tool calls.
type Positional struct{}

func (Positional) Attach(invocations []*ToolInvocation, name, result string) *ToolInvocation {
	for i := len(invocations) - 1; i >= 0; i-- {
		if invocations[i].Result == nil {
			invocations[i].Result = &result
			return invocations[i]
		}
	}
	return nil
}
