package schema

// ToolCall is one tool invocation requested by the model inside a single
// turn. ID is the opaque invocation identifier assigned by the model; it
// must be echoed back on the paired ToolResult.
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]any
}

// ToolResult is the outcome of exactly one ToolCall. IsError marks results
// that carry descriptive error text rather than data; the model sees both
// the same way and decides how to react.
type ToolResult struct {
	ID      string
	Content string
	IsError bool
}

// Message is one entry in the conversation history.
//
// Role is one of: "system", "user", "assistant", "tool".
//
// Content holds the message text:
//   - system / user: plain string
//   - assistant: *string (nil when the turn contained only tool calls)
//
// ToolCalls is populated for assistant messages that invoke tools.
// ToolResults is populated for "tool" messages; one tool message carries
// every result of the preceding assistant turn and is rendered as a single
// user message of tool_result blocks on the wire.
type Message struct {
	Role        string
	Content     any // string | *string
	ToolCalls   []ToolCall
	ToolResults []ToolResult
}

func NewSystemMessage(content string) Message {
	return Message{
		Role:    "system",
		Content: content,
	}
}

func NewUserMessage(content string) Message {
	return Message{
		Role:    "user",
		Content: content,
	}
}

func NewAssistantMessage(content *string, toolCalls []ToolCall) Message {
	return Message{
		Role:      "assistant",
		Content:   content,
		ToolCalls: toolCalls,
	}
}

func NewToolResultsMessage(results []ToolResult) Message {
	return Message{
		Role:        "tool",
		ToolResults: results,
	}
}
