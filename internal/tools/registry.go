package tools

import (
	"sort"

	"github.com/windvane/windvane/internal/schema"
)

// ToolName is the canonical name of a catalog tool.
type ToolName string

const (
	ToolCurrentWeather  ToolName = "current-weather"
	ToolWeatherForecast ToolName = "weather-forecast"
	ToolCryptoPrice     ToolName = "crypto-price"
	ToolExchangeRate    ToolName = "exchange-rate"
)

// Registry holds the provider's fixed set of named tools. It is immutable
// after Build; there is no dynamic registration.
type Registry struct {
	tools map[string]schema.Tool
}

// Get returns the tool with the given name, or nil.
func (r *Registry) Get(name string) schema.Tool {
	return r.tools[name]
}

// List returns the catalog descriptors sorted by tool name, so the
// advertised order is stable across calls.
func (r *Registry) List() []schema.ToolDescriptor {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]schema.ToolDescriptor, 0, len(names))
	for _, name := range names {
		out = append(out, schema.Describe(r.tools[name]))
	}
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.tools) }
