package render

import "fmt"

// Recorder is an in-memory Surface that records every call it receives,
// in order. Used by protocol and session tests.
type Recorder struct {
	Calls      []string
	Text       string   // last UpdateAssistantMessage payload
	ToolNames  []string // AppendToolCall names in order
	Results    map[ToolHandle]string
	Finalized  bool
	LastError  string
	History    []Message
	Summaries  []Summary
	StatusLog  []string
	nextHandle ToolHandle
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{Results: make(map[ToolHandle]string)}
}

func (r *Recorder) record(format string, args ...interface{}) {
	r.Calls = append(r.Calls, fmt.Sprintf(format, args...))
}

func (r *Recorder) AppendUserMessage(text string) {
	r.record("user:%s", text)
}

func (r *Recorder) BeginAssistantMessage() {
	r.Text = ""
	r.Finalized = false
	r.record("begin")
}

func (r *Recorder) UpdateAssistantMessage(text string) {
	r.Text = text
	r.record("update:%s", text)
}

func (r *Recorder) AppendToolCall(name string, args map[string]interface{}) ToolHandle {
	h := r.nextHandle
	r.nextHandle++
	r.ToolNames = append(r.ToolNames, name)
	r.record("tool_call:%s", name)
	return h
}

func (r *Recorder) SetToolResult(handle ToolHandle, result string) {
	r.Results[handle] = result
	r.record("tool_result:%d", handle)
}

func (r *Recorder) FinalizeAssistantMessage() {
	r.Finalized = true
	r.record("finalize")
}

func (r *Recorder) ShowAssistantError(message string) {
	r.LastError = message
	r.record("error:%s", message)
}

func (r *Recorder) ShowHistory(messages []Message) {
	r.History = messages
	r.record("history:%d", len(messages))
}

func (r *Recorder) ResetToWelcome() {
	r.History = nil
	r.Text = ""
	r.record("reset")
}

func (r *Recorder) ShowConversations(summaries []Summary) {
	r.Summaries = summaries
	r.record("sidebar:%d", len(summaries))
}

func (r *Recorder) SetStatus(label string, active bool) {
	r.StatusLog = append(r.StatusLog, fmt.Sprintf("%s:%t", label, active))
}
