// Package transport owns the single duplex connection to the backend:
// dialing, the read loop, send gating, and automatic reconnection.
//
// Exactly one connection is live at a time. When a connection drops,
// the session schedules exactly one reconnect attempt after a fixed
// delay; attempts are unbounded with no backoff growth.
//
// Frames read from the connection are delivered to the listener from a
// single goroutine, strictly in arrival order.
package transport
