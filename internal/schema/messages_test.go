package schema

import "testing"

func strPtr(s string) *string { return &s }

func TestMessages_GrowthShape(t *testing.T) {
	conv := NewMessages()
	conv.AddUser("what's the weather in London?")

	if conv.Len() != 1 {
		t.Fatalf("expected 1 message after the user turn, got %d", conv.Len())
	}

	// Two tool turns: each appends exactly one assistant message and one
	// results message, so N turns leave 1+2N messages.
	for turn := 1; turn <= 2; turn++ {
		calls := []ToolCall{{ID: "call-1", Name: "current-weather", Arguments: map[string]any{"city": "London"}}}
		conv.AddAssistant(nil, calls)
		conv.AddToolResults([]ToolResult{{ID: "call-1", Content: "15°C"}})

		if want := 1 + 2*turn; conv.Len() != want {
			t.Fatalf("after %d tool turns: expected %d messages, got %d", turn, want, conv.Len())
		}
	}

	msgs := conv.Messages
	if msgs[0].Role != "user" || msgs[1].Role != "assistant" || msgs[2].Role != "tool" {
		t.Errorf("unexpected role sequence: %s, %s, %s", msgs[0].Role, msgs[1].Role, msgs[2].Role)
	}
}

func TestMessages_ToolResultsSingleMessage(t *testing.T) {
	conv := NewMessages()
	conv.AddUser("BTC and ETH?")
	conv.AddAssistant(strPtr("Let me check both."), []ToolCall{
		{ID: "a", Name: "crypto-price", Arguments: map[string]any{"symbol": "BTC"}},
		{ID: "b", Name: "crypto-price", Arguments: map[string]any{"symbol": "ETH"}},
	})
	conv.AddToolResults([]ToolResult{
		{ID: "a", Content: "$50000"},
		{ID: "b", Content: "$3000"},
	})

	if conv.Len() != 3 {
		t.Fatalf("expected 3 messages, got %d", conv.Len())
	}
	last := conv.Messages[2]
	if last.Role != "tool" {
		t.Fatalf("expected tool role, got %q", last.Role)
	}
	if len(last.ToolResults) != 2 {
		t.Errorf("expected both results in one message, got %d", len(last.ToolResults))
	}
	if last.ToolResults[0].ID != "a" || last.ToolResults[1].ID != "b" {
		t.Errorf("results out of order: %q, %q", last.ToolResults[0].ID, last.ToolResults[1].ID)
	}
}

func TestMessages_CloneIsIndependent(t *testing.T) {
	conv := NewMessages()
	conv.AddUser("hello")

	cp := conv.Clone()
	cp.AddUser("extra")

	if conv.Len() != 1 {
		t.Errorf("clone mutation leaked into original: %d messages", conv.Len())
	}
	if cp.Len() != 2 {
		t.Errorf("expected 2 messages in clone, got %d", cp.Len())
	}
}

func TestLLMResponse_HasToolCalls(t *testing.T) {
	if (LLMResponse{}).HasToolCalls() {
		t.Error("empty response should not report tool calls")
	}
	r := LLMResponse{ToolCalls: []ToolCall{{ID: "x", Name: "exchange-rate"}}}
	if !r.HasToolCalls() {
		t.Error("response with a call should report tool calls")
	}
}
