package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/windvane/windvane/internal/upstream"
)

// ExchangeRateTool converts an amount between two fiat currencies.
type ExchangeRateTool struct {
	client *upstream.RatesClient
}

// NewExchangeRateTool creates an ExchangeRateTool backed by client.
func NewExchangeRateTool(client *upstream.RatesClient) *ExchangeRateTool {
	return &ExchangeRateTool{client: client}
}

func (t *ExchangeRateTool) Name() string { return string(ToolExchangeRate) }
func (t *ExchangeRateTool) Description() string {
	return "Get the exchange rate between two currencies and convert an optional amount."
}

func (t *ExchangeRateTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"from_currency": {
				"type": "string",
				"description": "The source currency code (e.g., 'USD', 'EUR')"
			},
			"to_currency": {
				"type": "string",
				"description": "The target currency code (e.g., 'JPY', 'GBP')"
			},
			"amount": {
				"type": "number",
				"description": "The amount to convert (default 1)"
			}
		},
		"required": ["from_currency", "to_currency"]
	}`)
}

func (t *ExchangeRateTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	from, ok := stringArg(params, "from_currency")
	if !ok {
		return "Error: from_currency is required", nil
	}
	to, ok := stringArg(params, "to_currency")
	if !ok {
		return "Error: to_currency is required", nil
	}
	amount := numberArg(params, "amount", 1)

	table, err := t.client.Latest(ctx, from)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}
	rate, err := table.Rate(to)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}

	fromCode := strings.ToUpper(strings.TrimSpace(from))
	toCode := strings.ToUpper(strings.TrimSpace(to))

	var b strings.Builder
	fmt.Fprintf(&b, "Exchange Rate:\n\n")
	fmt.Fprintf(&b, "%.2f %s = %.2f %s\n", amount, fromCode, amount*rate, toCode)
	fmt.Fprintf(&b, "Rate: 1 %s = %.4f %s\n", fromCode, rate, toCode)
	return b.String(), nil
}
