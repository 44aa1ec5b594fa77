package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/windvane/windvane/internal/upstream"
)

// CryptoPriceTool reports the USD quote for a cryptocurrency symbol.
type CryptoPriceTool struct {
	client *upstream.CryptoClient
}

// NewCryptoPriceTool creates a CryptoPriceTool backed by client.
func NewCryptoPriceTool(client *upstream.CryptoClient) *CryptoPriceTool {
	return &CryptoPriceTool{client: client}
}

func (t *CryptoPriceTool) Name() string { return string(ToolCryptoPrice) }
func (t *CryptoPriceTool) Description() string {
	return "Get the current price of a cryptocurrency in USD. Returns price, 24hr change, and market cap."
}

func (t *CryptoPriceTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"symbol": {
				"type": "string",
				"description": "The cryptocurrency ticker symbol (e.g., 'BTC', 'ETH', 'SOL')"
			}
		},
		"required": ["symbol"]
	}`)
}

func (t *CryptoPriceTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	symbol, ok := stringArg(params, "symbol")
	if !ok {
		return "Error: Cryptocurrency symbol is required", nil
	}

	quote, err := t.client.Price(ctx, symbol)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s) Price:\n\n", titleCase(quote.ID), strings.ToUpper(symbol))
	fmt.Fprintf(&b, "Price: $%.2f USD\n", quote.USD)
	fmt.Fprintf(&b, "24h Change: %+.2f%%\n", quote.Change24h)
	fmt.Fprintf(&b, "Market Cap: $%.0f USD\n", quote.MarketCap)
	return b.String(), nil
}

// titleCase capitalises the first letter of a coin id for display.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
