package schema

import "context"

// ChatOptions configures a single model request.
type ChatOptions struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// NewChatOptions bundles the per-request model settings.
func NewChatOptions(model string, maxTokens int, temperature float64) ChatOptions {
	return ChatOptions{Model: model, MaxTokens: maxTokens, Temperature: temperature}
}

// LLMResponse is the normalised response of one model turn.
type LLMResponse struct {
	Content    *string // nil when the turn contains only tool calls
	ToolCalls  []ToolCall
	StopReason string
	Usage      map[string]int // "input_tokens", "output_tokens"
}

// HasToolCalls reports whether the turn requested at least one tool call.
func (r LLMResponse) HasToolCalls() bool { return len(r.ToolCalls) > 0 }

// LLMProvider is the interface every model backend must satisfy. Chat is
// never retried automatically; failures propagate to the caller.
type LLMProvider interface {
	Chat(ctx context.Context, messages Messages, catalog []ToolDescriptor, opts ChatOptions) (LLMResponse, error)
	DefaultModel() string
}
