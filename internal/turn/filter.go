package turn

import "regexp"

// Tool fences are structured control data the agent embeds in its
// response stream ("```tool\n{...}\n```"). They drive tool execution on
// the backend and must never be shown as prose.
var toolFence = regexp.MustCompile("(?s)```tool\\s*\\n.*?\\n```")

// FilterToolFences strips every complete fenced tool block from text.
func FilterToolFences(text string) string {
	return toolFence.ReplaceAllString(text, "")
}
