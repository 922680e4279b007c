// Package protocol defines the wire protocol spoken over the chat
// WebSocket and the dispatcher that routes inbound frames.
//
// Frames are JSON objects discriminated by a "type" field.
//
// Message Types (Client → Server):
//   - the single request shape: message, conversation_id, model, use_agent
//
// Message Types (Server → Client):
//   - conversation_id: backend-assigned conversation identifier
//   - chunk: incremental response text
//   - tool_call: the agent invoked a tool
//   - tool_result: output of the most recent tool invocation
//   - status: agent status (thinking, tool_calling, ready)
//   - done: turn complete
//   - error: backend-reported failure
//
// Unknown types are ignored so newer backends do not break older
// clients. Malformed frames are dropped and logged; they never tear
// down the connection.
package protocol
