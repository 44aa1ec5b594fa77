// Package tools implements the provider's tool catalog. Every tool performs
// one upstream HTTP call and formats the result as a text block for the
// model. Domain failures (bad city, unreachable upstream) are returned as
// "Error: ..." text with a nil error so the conversation can continue.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/windvane/windvane/internal/upstream"
)

// forecastSlots is how many three-hour forecast entries are shown (24 hours).
const forecastSlots = 8

// ---------------------------------------------------------------------------
// CurrentWeatherTool
// ---------------------------------------------------------------------------

// CurrentWeatherTool reports current conditions for a city.
type CurrentWeatherTool struct {
	client *upstream.WeatherClient
}

// NewCurrentWeatherTool creates a CurrentWeatherTool backed by client.
func NewCurrentWeatherTool(client *upstream.WeatherClient) *CurrentWeatherTool {
	return &CurrentWeatherTool{client: client}
}

func (t *CurrentWeatherTool) Name() string { return string(ToolCurrentWeather) }
func (t *CurrentWeatherTool) Description() string {
	return "Get current weather conditions for a specific city. Returns temperature, humidity, conditions, and more."
}

func (t *CurrentWeatherTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"city": {
				"type": "string",
				"description": "The city name (e.g., 'London', 'New York', 'Tokyo')"
			}
		},
		"required": ["city"]
	}`)
}

func (t *CurrentWeatherTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	city, ok := stringArg(params, "city")
	if !ok {
		return "Error: City name is required", nil
	}

	data, err := t.client.Current(ctx, city)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}

	condMain, condDesc := "", ""
	if len(data.Weather) > 0 {
		condMain = data.Weather[0].Main
		condDesc = data.Weather[0].Description
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Current Weather in %s, %s:\n\n", data.Name, data.Sys.Country)
	fmt.Fprintf(&b, "Temperature: %.1f°C (feels like %.1f°C)\n", data.Main.Temp, data.Main.FeelsLike)
	fmt.Fprintf(&b, "Conditions: %s - %s\n", condMain, condDesc)
	fmt.Fprintf(&b, "Humidity: %d%%\n", data.Main.Humidity)
	fmt.Fprintf(&b, "Pressure: %d hPa\n", data.Main.Pressure)
	fmt.Fprintf(&b, "Wind Speed: %.1f m/s\n", data.Wind.Speed)
	fmt.Fprintf(&b, "Cloudiness: %d%%\n", data.Clouds.All)
	return b.String(), nil
}

// ---------------------------------------------------------------------------
// WeatherForecastTool
// ---------------------------------------------------------------------------

// WeatherForecastTool reports the next 24 hours of a city's 5-day forecast.
type WeatherForecastTool struct {
	client *upstream.WeatherClient
}

// NewWeatherForecastTool creates a WeatherForecastTool backed by client.
func NewWeatherForecastTool(client *upstream.WeatherClient) *WeatherForecastTool {
	return &WeatherForecastTool{client: client}
}

func (t *WeatherForecastTool) Name() string { return string(ToolWeatherForecast) }
func (t *WeatherForecastTool) Description() string {
	return "Get 5-day weather forecast for a specific city. Returns forecasted conditions every 3 hours."
}

func (t *WeatherForecastTool) Parameters() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"city": {
				"type": "string",
				"description": "The city name (e.g., 'London', 'New York', 'Tokyo')"
			}
		},
		"required": ["city"]
	}`)
}

func (t *WeatherForecastTool) Execute(ctx context.Context, params map[string]any) (string, error) {
	city, ok := stringArg(params, "city")
	if !ok {
		return "Error: City name is required", nil
	}

	data, err := t.client.FiveDay(ctx, city)
	if err != nil {
		return fmt.Sprintf("Error: %v", err), nil
	}

	entries := data.List
	if len(entries) > forecastSlots {
		entries = entries[:forecastSlots]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "5-Day Weather Forecast for %s, %s:\n\n", data.City.Name, data.City.Country)
	for _, entry := range entries {
		desc := ""
		if len(entry.Weather) > 0 {
			desc = entry.Weather[0].Description
		}
		fmt.Fprintf(&b, "%s: %.1f°C, %s\n", entry.DtTxt, entry.Main.Temp, desc)
	}
	return b.String(), nil
}
