package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// WeatherClient calls the OpenWeatherMap API. All requests use metric units.
type WeatherClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewWeatherClient creates a WeatherClient for the given base URL and key.
func NewWeatherClient(baseURL, apiKey string, timeout time.Duration) *WeatherClient {
	return &WeatherClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CurrentWeather is the subset of the /weather payload the tools format.
type CurrentWeather struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Clouds struct {
		All int `json:"all"`
	} `json:"clouds"`
}

// Forecast is the subset of the /forecast payload the tools format:
// three-hourly entries over five days.
type Forecast struct {
	City struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"city"`
	List []ForecastEntry `json:"list"`
}

// ForecastEntry is one three-hour forecast slot.
type ForecastEntry struct {
	DtTxt string `json:"dt_txt"`
	Main  struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

// Current fetches the current conditions for city.
func (c *WeatherClient) Current(ctx context.Context, city string) (*CurrentWeather, error) {
	var out CurrentWeather
	if err := fetchJSON(ctx, c.httpClient, c.baseURL+"/weather", c.query(city), &out); err != nil {
		return nil, c.wrap(city, err)
	}
	return &out, nil
}

// FiveDay fetches the 5-day / 3-hour forecast for city.
func (c *WeatherClient) FiveDay(ctx context.Context, city string) (*Forecast, error) {
	var out Forecast
	if err := fetchJSON(ctx, c.httpClient, c.baseURL+"/forecast", c.query(city), &out); err != nil {
		return nil, c.wrap(city, err)
	}
	return &out, nil
}

func (c *WeatherClient) query(city string) url.Values {
	return url.Values{
		"q":     {city},
		"appid": {c.apiKey},
		"units": {"metric"},
	}
}

func (c *WeatherClient) wrap(city string, err error) error {
	if IsNotFound(err) {
		return fmt.Errorf("city %q not found", city)
	}
	return err
}
