// Package turn owns the state of the single in-flight assistant turn:
// the accumulated response text, the ordered tool invocations, and the
// IDLE/STREAMING lifecycle.
//
// At most one turn is open at a time. Chunk text is re-rendered in full
// on every fragment with embedded tool fences stripped; tool results
// are attached to their calls by a pluggable Correlator.
package turn
