package providers

import (
	"encoding/json"
	"fmt"

	anthropic "github.com/anthropics/anthropic-sdk-go"

	"github.com/windvane/windvane/internal/schema"
)

// inputSchema is the subset of JSON Schema the catalog descriptors carry.
type inputSchema struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Required   []string       `json:"required"`
}

// toToolParams converts catalog descriptors into Messages-API tool params.
func toToolParams(catalog []schema.ToolDescriptor) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(catalog))
	for _, desc := range catalog {
		var is inputSchema
		if err := json.Unmarshal(desc.InputSchema, &is); err != nil || is.Properties == nil {
			is.Properties = map[string]any{}
		}
		tool := anthropic.ToolParam{
			Name:        desc.Name,
			Description: anthropic.String(desc.Description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: is.Properties,
				Required:   is.Required,
			},
		}
		out = append(out, anthropic.ToolUnionParam{OfTool: &tool})
	}
	return out
}

// toMessageParams converts the conversation to Messages-API params.
// System messages are folded into the system prompt; a "tool" message
// becomes one user message carrying the whole turn's tool_result blocks.
func toMessageParams(msgs schema.Messages) (string, []anthropic.MessageParam, error) {
	var system string
	out := make([]anthropic.MessageParam, 0, len(msgs.Messages))

	for _, m := range msgs.Messages {
		switch m.Role {
		case "system":
			if s, ok := m.Content.(string); ok && s != "" {
				if system != "" {
					system += "\n\n"
				}
				system += s
			}
		case "user":
			s, _ := m.Content.(string)
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(s)))
		case "assistant":
			blocks := make([]anthropic.ContentBlockParamUnion, 0, 1+len(m.ToolCalls))
			if text := assistantText(m.Content); text != "" {
				blocks = append(blocks, anthropic.NewTextBlock(text))
			}
			for _, tc := range m.ToolCalls {
				args := tc.Arguments
				if args == nil {
					args = map[string]any{}
				}
				blocks = append(blocks, anthropic.NewToolUseBlock(tc.ID, args, tc.Name))
			}
			if len(blocks) == 0 {
				continue
			}
			out = append(out, anthropic.MessageParam{
				Role:    anthropic.MessageParamRoleAssistant,
				Content: blocks,
			})
		case "tool":
			blocks := make([]anthropic.ContentBlockParamUnion, 0, len(m.ToolResults))
			for _, res := range m.ToolResults {
				blocks = append(blocks, anthropic.NewToolResultBlock(res.ID, res.Content, res.IsError))
			}
			out = append(out, anthropic.MessageParam{
				Role:    anthropic.MessageParamRoleUser,
				Content: blocks,
			})
		default:
			return "", nil, fmt.Errorf("unknown message role %q", m.Role)
		}
	}
	return system, out, nil
}

func assistantText(content any) string {
	switch c := content.(type) {
	case string:
		return c
	case *string:
		if c != nil {
			return *c
		}
	}
	return ""
}

// parseMessage normalises one Messages-API response. Content carries the
// first text block (the answer text); tool_use blocks become ToolCalls in
// order of appearance.
func parseMessage(msg *anthropic.Message) schema.LLMResponse {
	var content *string
	var calls []schema.ToolCall

	for _, block := range msg.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			if content == nil {
				text := b.Text
				content = &text
			}
		case anthropic.ToolUseBlock:
			args := map[string]any{}
			if len(b.Input) > 0 {
				_ = json.Unmarshal(b.Input, &args)
			}
			calls = append(calls, schema.ToolCall{ID: b.ID, Name: b.Name, Arguments: args})
		}
	}

	return schema.LLMResponse{
		Content:    content,
		ToolCalls:  calls,
		StopReason: string(msg.StopReason),
		Usage: map[string]int{
			"input_tokens":  int(msg.Usage.InputTokens),
			"output_tokens": int(msg.Usage.OutputTokens),
		},
	}
}
