package config

// Config is the explicit configuration object for a windvane process. It is
// constructed once at process entry and passed by reference into every
// component that needs it; business logic never reads ambient environment
// state directly.
type Config struct {
	Agent       AgentConfig       `yaml:"agent"`
	Server      ServerConfig      `yaml:"server"`
	Upstream    UpstreamConfig    `yaml:"upstream"`
	Credentials CredentialsConfig `yaml:"credentials"`
}

// AgentConfig holds the model and loop settings for the orchestrating client.
type AgentConfig struct {
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"maxTokens"`
	Temperature float64 `yaml:"temperature"`
	// MaxTurns bounds the number of model turns per query so a misbehaving
	// model cannot loop forever.
	MaxTurns int `yaml:"maxTurns"`
}

// ServerConfig describes how the client launches the tool provider.
// An empty Command means "re-exec the current binary with `serve`".
type ServerConfig struct {
	Command string            `yaml:"command"`
	Args    []string          `yaml:"args"`
	Env     map[string]string `yaml:"env"`
}

// UpstreamConfig holds the base URLs and timeout for the provider's
// upstream HTTP APIs. The URLs are overridable so tests can point the
// tools at local stubs.
type UpstreamConfig struct {
	WeatherBaseURL string `yaml:"weatherBaseUrl"`
	CryptoBaseURL  string `yaml:"cryptoBaseUrl"`
	RatesBaseURL   string `yaml:"ratesBaseUrl"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// CredentialsConfig holds the static credentials read once at startup.
// Environment variables take precedence over file values (see Load).
type CredentialsConfig struct {
	AnthropicAPIKey   string `yaml:"anthropicApiKey"`
	OpenWeatherAPIKey string `yaml:"openweatherApiKey"`
}

// DefaultConfig returns the baseline configuration used when no config file
// exists or a field is left unset.
func DefaultConfig() Config {
	return Config{
		Agent: AgentConfig{
			Model:       "claude-sonnet-4-20250514",
			MaxTokens:   4096,
			Temperature: 1.0,
			MaxTurns:    10,
		},
		Upstream: UpstreamConfig{
			WeatherBaseURL: "https://api.openweathermap.org/data/2.5",
			CryptoBaseURL:  "https://api.coingecko.com/api/v3",
			RatesBaseURL:   "https://open.er-api.com/v6",
			TimeoutSeconds: 10,
		},
	}
}
