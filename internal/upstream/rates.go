package upstream

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// RatesClient calls the open.er-api.com exchange-rate API, which returns
// the full rate table for a base currency. No credential needed.
type RatesClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewRatesClient creates a RatesClient for the given base URL.
func NewRatesClient(baseURL string, timeout time.Duration) *RatesClient {
	return &RatesClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// RateTable holds every rate quoted against Base.
type RateTable struct {
	Base  string
	Rates map[string]float64
}

// Rate selects the rate for target, which must be a currency code present
// in the table.
func (t *RateTable) Rate(target string) (float64, error) {
	code := strings.ToUpper(strings.TrimSpace(target))
	rate, ok := t.Rates[code]
	if !ok {
		return 0, fmt.Errorf("unknown currency %q", target)
	}
	return rate, nil
}

// Latest fetches the current rate table for the base currency code.
func (c *RatesClient) Latest(ctx context.Context, base string) (*RateTable, error) {
	code := strings.ToUpper(strings.TrimSpace(base))

	var out struct {
		Result   string             `json:"result"`
		BaseCode string             `json:"base_code"`
		Rates    map[string]float64 `json:"rates"`
	}
	if err := fetchJSON(ctx, c.httpClient, c.baseURL+"/latest/"+code, nil, &out); err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("unknown currency %q", base)
		}
		return nil, err
	}
	if out.Result != "success" {
		return nil, fmt.Errorf("rate lookup for %q failed: %s", base, out.Result)
	}
	return &RateTable{Base: out.BaseCode, Rates: out.Rates}, nil
}
