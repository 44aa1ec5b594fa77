package providers

import (
	"encoding/json"
	"testing"

	anthropic "github.com/anthropics/anthropic-sdk-go"

	"github.com/windvane/windvane/internal/schema"
)

func strPtr(s string) *string { return &s }

func TestToToolParams(t *testing.T) {
	catalog := []schema.ToolDescriptor{
		{
			Name:        "current-weather",
			Description: "Get current weather conditions for a specific city.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{"city":{"type":"string"}},"required":["city"]}`),
		},
	}

	params := toToolParams(catalog)
	if len(params) != 1 {
		t.Fatalf("expected 1 tool param, got %d", len(params))
	}
	tool := params[0].OfTool
	if tool == nil {
		t.Fatal("expected OfTool variant")
	}
	if tool.Name != "current-weather" {
		t.Errorf("unexpected name %q", tool.Name)
	}
	if _, ok := tool.InputSchema.Properties.(map[string]any)["city"]; !ok {
		t.Errorf("expected city property, got %+v", tool.InputSchema.Properties)
	}
	if len(tool.InputSchema.Required) != 1 || tool.InputSchema.Required[0] != "city" {
		t.Errorf("unexpected required list %v", tool.InputSchema.Required)
	}
}

func TestToToolParams_MalformedSchema(t *testing.T) {
	catalog := []schema.ToolDescriptor{
		{Name: "broken", InputSchema: json.RawMessage(`not json`)},
	}

	params := toToolParams(catalog)
	if len(params) != 1 {
		t.Fatalf("expected 1 tool param, got %d", len(params))
	}
	props, ok := params[0].OfTool.InputSchema.Properties.(map[string]any)
	if !ok || props == nil {
		t.Errorf("expected empty properties map fallback, got %+v", params[0].OfTool.InputSchema.Properties)
	}
}

func TestToMessageParams_SystemFolding(t *testing.T) {
	conv := schema.NewMessages()
	conv.AddSystem("You are terse.")
	conv.AddSystem("Use tools.")
	conv.AddUser("hello")

	system, msgs, err := toMessageParams(conv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if system != "You are terse.\n\nUse tools." {
		t.Errorf("unexpected system prompt %q", system)
	}
	if len(msgs) != 1 {
		t.Errorf("system messages must not appear in the message list, got %d entries", len(msgs))
	}
}

func TestToMessageParams_ToolTurnShape(t *testing.T) {
	conv := schema.NewMessages()
	conv.AddUser("BTC?")
	conv.AddAssistant(strPtr("Checking."), []schema.ToolCall{
		{ID: "call-1", Name: "crypto-price", Arguments: map[string]any{"symbol": "BTC"}},
	})
	conv.AddToolResults([]schema.ToolResult{
		{ID: "call-1", Content: "$50000"},
	})

	_, msgs, err := toMessageParams(conv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected 3 wire messages, got %d", len(msgs))
	}
	if msgs[1].Role != anthropic.MessageParamRoleAssistant {
		t.Errorf("expected assistant role, got %q", msgs[1].Role)
	}
	// Text block plus tool_use block.
	if len(msgs[1].Content) != 2 {
		t.Errorf("expected 2 assistant blocks, got %d", len(msgs[1].Content))
	}
	// Results ride in a user-role message.
	if msgs[2].Role != anthropic.MessageParamRoleUser {
		t.Errorf("expected user role for results, got %q", msgs[2].Role)
	}
}

func TestToMessageParams_UnknownRole(t *testing.T) {
	conv := schema.NewMessages(schema.Message{Role: "oracle", Content: "?"})
	if _, _, err := toMessageParams(conv); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestAssistantText(t *testing.T) {
	if got := assistantText("plain"); got != "plain" {
		t.Errorf("string: got %q", got)
	}
	if got := assistantText(strPtr("ptr")); got != "ptr" {
		t.Errorf("pointer: got %q", got)
	}
	if got := assistantText((*string)(nil)); got != "" {
		t.Errorf("nil pointer: got %q", got)
	}
	if got := assistantText(nil); got != "" {
		t.Errorf("nil: got %q", got)
	}
}
