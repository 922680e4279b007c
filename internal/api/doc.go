// Package api is the typed client for the backend's request/response
// endpoints: conversation summaries, conversation history, the model
// catalog, and health. It is separate from the streaming protocol,
// which speaks WebSocket frames; see internal/protocol.
package api
