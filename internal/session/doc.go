// Package session wires the protocol core together: it owns the
// per-process Session state, turns user input into outbound requests,
// routes inbound envelopes into the turn accumulator, and mediates with
// the read APIs for the sidebar and history loading.
//
// Frames arrive from the transport's read goroutine and user operations
// arrive from the UI goroutine; every mutation of Session and Turn
// state is serialized behind the controller's single mutex.
package session
