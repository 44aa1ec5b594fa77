// Package schema contains the core contracts shared across windvane
// packages. Concrete implementations live in their respective packages;
// this package is the single canonical source of truth for every shared
// type and interface definition.
package schema

import (
	"context"
	"encoding/json"
)

// Tool is the interface every provider-side tool must satisfy.
//
// Execute returns the result text for the model. Domain-level failures
// (bad city, unsupported symbol, unreachable upstream) are reported as
// "Error: ..." text with a nil error so the conversation can continue;
// a non-nil error is reserved for faults the provider cannot phrase as a
// tool result.
type Tool interface {
	Name() string
	Description() string
	// Parameters returns the JSON Schema (as raw JSON bytes) for this tool's
	// input arguments.
	Parameters() json.RawMessage
	Execute(ctx context.Context, params map[string]any) (string, error)
}

// ToolDescriptor is one entry of the provider's advertised catalog. It is
// immutable once advertised; the client copies the catalog at session start
// and treats it as read-only afterwards.
type ToolDescriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// Describe builds the catalog entry for a tool.
func Describe(t Tool) ToolDescriptor {
	return ToolDescriptor{
		Name:        t.Name(),
		Description: t.Description(),
		InputSchema: t.Parameters(),
	}
}
