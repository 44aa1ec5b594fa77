package tools

import "strings"

// Tool arguments arrive as untyped key-value data from the wire. These
// helpers validate them into typed values at the provider boundary so the
// tool bodies never touch raw map access.

// stringArg extracts a non-empty string argument.
func stringArg(params map[string]any, key string) (string, bool) {
	v, ok := params[key].(string)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// numberArg extracts a numeric argument, falling back to def when absent.
// JSON numbers decode as float64; integers are accepted for robustness.
func numberArg(params map[string]any, key string, def float64) float64 {
	switch v := params[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return def
	}
}
