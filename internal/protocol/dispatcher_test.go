package protocol

import (
	"reflect"
	"testing"
)

type recordingHandler struct {
	events []string
	args   map[string]interface{}
}

func (h *recordingHandler) HandleConversationID(id string) {
	h.events = append(h.events, "conversation_id:"+id)
}

func (h *recordingHandler) HandleChunk(content string) {
	h.events = append(h.events, "chunk:"+content)
}

func (h *recordingHandler) HandleToolCall(name string, args map[string]interface{}) {
	h.events = append(h.events, "tool_call:"+name)
	h.args = args
}

func (h *recordingHandler) HandleToolResult(name, result string) {
	h.events = append(h.events, "tool_result:"+name+":"+result)
}

func (h *recordingHandler) HandleStatus(s Status) {
	h.events = append(h.events, "status:"+string(s))
}

func (h *recordingHandler) HandleDone() {
	h.events = append(h.events, "done")
}

func (h *recordingHandler) HandleError(message string) {
	h.events = append(h.events, "error:"+message)
}

func TestDispatchRoutesByType(t *testing.T) {
	h := &recordingHandler{}
	d := NewDispatcher(h, nil)

	frames := []string{
		`{"type":"conversation_id","conversation_id":"c1"}`,
		`{"type":"chunk","content":"Hi"}`,
		`{"type":"tool_call","name":"web_search","arguments":{"query":"go"}}`,
		`{"type":"tool_result","name":"web_search","result":"ok"}`,
		`{"type":"status","status":"thinking"}`,
		`{"type":"done"}`,
		`{"type":"error","message":"boom"}`,
	}
	for _, f := range frames {
		d.Dispatch([]byte(f))
	}

	want := []string{
		"conversation_id:c1",
		"chunk:Hi",
		"tool_call:web_search",
		"tool_result:web_search:ok",
		"status:thinking",
		"done",
		"error:boom",
	}
	if !reflect.DeepEqual(h.events, want) {
		t.Errorf("events = %v, want %v", h.events, want)
	}
	if h.args["query"] != "go" {
		t.Errorf("tool arguments not forwarded: %v", h.args)
	}
}

func TestDispatchIgnoresUnknownType(t *testing.T) {
	h := &recordingHandler{}
	d := NewDispatcher(h, nil)

	d.Dispatch([]byte(`{"type":"telemetry","payload":42}`))
	d.Dispatch([]byte(`{"no_type_at_all":true}`))

	if len(h.events) != 0 {
		t.Errorf("unknown types must not invoke handlers, got %v", h.events)
	}
}

func TestDispatchDropsMalformedFrame(t *testing.T) {
	h := &recordingHandler{}
	d := NewDispatcher(h, nil)

	d.Dispatch([]byte(`{"type":"chunk",`))
	d.Dispatch([]byte(`not json`))

	if len(h.events) != 0 {
		t.Errorf("malformed frames must be dropped, got %v", h.events)
	}

	// The dispatcher survives and keeps routing.
	d.Dispatch([]byte(`{"type":"chunk","content":"still alive"}`))
	if len(h.events) != 1 || h.events[0] != "chunk:still alive" {
		t.Errorf("dispatch after malformed frame = %v", h.events)
	}
}
