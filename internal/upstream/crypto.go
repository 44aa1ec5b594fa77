package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// coinIDs maps common ticker symbols to CoinGecko coin identifiers.
// Symbols missing from the table are passed through lowercased, so less
// common coins still work when the symbol happens to equal the id.
var coinIDs = map[string]string{
	"btc":  "bitcoin",
	"eth":  "ethereum",
	"sol":  "solana",
	"doge": "dogecoin",
	"ada":  "cardano",
	"xrp":  "ripple",
	"bnb":  "binancecoin",
	"ltc":  "litecoin",
	"dot":  "polkadot",
}

// CryptoClient calls the CoinGecko simple-price API. No credential needed.
type CryptoClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewCryptoClient creates a CryptoClient for the given base URL.
func NewCryptoClient(baseURL string, timeout time.Duration) *CryptoClient {
	return &CryptoClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CoinPrice is the USD quote for one coin.
type CoinPrice struct {
	ID        string
	USD       float64
	Change24h float64
	MarketCap float64
}

// CoinID resolves a ticker symbol to the provider's coin identifier.
func CoinID(symbol string) string {
	sym := strings.ToLower(strings.TrimSpace(symbol))
	if id, ok := coinIDs[sym]; ok {
		return id
	}
	return sym
}

// Price fetches the USD price, 24h change, and market cap for symbol.
func (c *CryptoClient) Price(ctx context.Context, symbol string) (*CoinPrice, error) {
	id := CoinID(symbol)

	var out map[string]struct {
		USD       float64 `json:"usd"`
		Change24h float64 `json:"usd_24h_change"`
		MarketCap float64 `json:"usd_market_cap"`
	}
	query := url.Values{
		"ids":                 {id},
		"vs_currencies":       {"usd"},
		"include_24hr_change": {"true"},
		"include_market_cap":  {"true"},
	}
	if err := fetchJSON(ctx, c.httpClient, c.baseURL+"/simple/price", query, &out); err != nil {
		return nil, err
	}

	quote, ok := out[id]
	if !ok {
		return nil, fmt.Errorf("no price data for %q", symbol)
	}
	return &CoinPrice{
		ID:        id,
		USD:       quote.USD,
		Change24h: quote.Change24h,
		MarketCap: quote.MarketCap,
	}, nil
}
