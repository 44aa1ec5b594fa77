// Package container wires core windvane services using go.uber.org/dig.
package container

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/dig"

	"github.com/windvane/windvane/internal/agent"
	"github.com/windvane/windvane/internal/config"
	"github.com/windvane/windvane/internal/mcp"
	"github.com/windvane/windvane/internal/providers"
	"github.com/windvane/windvane/internal/schema"
	"github.com/windvane/windvane/internal/tools"
	"github.com/windvane/windvane/internal/upstream"
)

// Container holds the resolved client-side service singletons.
// Callers use the typed getter methods; they never need to import dig directly.
type Container struct {
	provider schema.LLMProvider
	runner   *agent.Runner
}

func (c *Container) Provider() schema.LLMProvider { return c.provider }
func (c *Container) Runner() *agent.Runner        { return c.runner }

// New builds and wires the orchestrating client's services from cfg.
func New(cfg *config.Config) (*Container, error) {
	d := dig.New()

	if err := d.Provide(func() *config.Config { return cfg }); err != nil {
		return nil, err
	}
	if err := d.Provide(newProvider); err != nil {
		return nil, err
	}
	if err := d.Provide(newDialer); err != nil {
		return nil, err
	}
	if err := d.Provide(newRunner); err != nil {
		return nil, err
	}

	var result *Container
	err := d.Invoke(func(provider schema.LLMProvider, runner *agent.Runner) {
		result = &Container{provider: provider, runner: runner}
	})
	return result, err
}

func newProvider(cfg *config.Config) (schema.LLMProvider, error) {
	key := cfg.Credentials.AnthropicAPIKey
	if key == "" {
		return nil, fmt.Errorf("no Anthropic API key configured — set ANTHROPIC_API_KEY or edit %s", config.ConfigPath())
	}
	return providers.NewAnthropicProvider(key, cfg.Agent.Model), nil
}

// newDialer resolves the tool-provider launch spec. An empty command means
// "re-exec the current binary with serve", so the default install needs no
// server configuration at all.
func newDialer(cfg *config.Config) (agent.Dialer, error) {
	command := cfg.Server.Command
	args := cfg.Server.Args
	if command == "" {
		self, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("resolve own binary for serve: %w", err)
		}
		command = self
		args = []string{"serve"}
	}

	env := make(map[string]string, len(cfg.Server.Env)+1)
	for k, v := range cfg.Server.Env {
		env[k] = v
	}
	// The spawned provider reads its upstream credential from the
	// environment; pass ours through when the config carries one.
	if cfg.Credentials.OpenWeatherAPIKey != "" {
		env["OPENWEATHER_API_KEY"] = cfg.Credentials.OpenWeatherAPIKey
	}

	spec := mcp.ServerConfig{Command: command, Args: args, Env: env}
	return func(ctx context.Context) (agent.Invoker, error) {
		return mcp.Open(ctx, spec)
	}, nil
}

func newRunner(provider schema.LLMProvider, dial agent.Dialer, cfg *config.Config) *agent.Runner {
	return agent.NewRunner(provider, dial, agent.Settings{
		Model:       cfg.Agent.Model,
		MaxTokens:   cfg.Agent.MaxTokens,
		Temperature: cfg.Agent.Temperature,
		MaxTurns:    cfg.Agent.MaxTurns,
	})
}

// NewToolRegistry builds the provider-side tool catalog from cfg. It is a
// separate graph from New because the serve process needs no model backend.
func NewToolRegistry(cfg *config.Config) (*tools.Registry, error) {
	d := dig.New()

	if err := d.Provide(func() *config.Config { return cfg }); err != nil {
		return nil, err
	}
	if err := d.Provide(newWeatherClient); err != nil {
		return nil, err
	}
	if err := d.Provide(newCryptoClient); err != nil {
		return nil, err
	}
	if err := d.Provide(newRatesClient); err != nil {
		return nil, err
	}
	if err := d.Provide(newRegistry); err != nil {
		return nil, err
	}

	var result *tools.Registry
	err := d.Invoke(func(reg *tools.Registry) { result = reg })
	return result, err
}

func upstreamTimeout(cfg *config.Config) time.Duration {
	secs := cfg.Upstream.TimeoutSeconds
	if secs <= 0 {
		secs = 10
	}
	return time.Duration(secs) * time.Second
}

func newWeatherClient(cfg *config.Config) (*upstream.WeatherClient, error) {
	key := cfg.Credentials.OpenWeatherAPIKey
	if key == "" {
		return nil, fmt.Errorf("no OpenWeatherMap API key configured — set OPENWEATHER_API_KEY or edit %s", config.ConfigPath())
	}
	return upstream.NewWeatherClient(cfg.Upstream.WeatherBaseURL, key, upstreamTimeout(cfg)), nil
}

func newCryptoClient(cfg *config.Config) *upstream.CryptoClient {
	return upstream.NewCryptoClient(cfg.Upstream.CryptoBaseURL, upstreamTimeout(cfg))
}

func newRatesClient(cfg *config.Config) *upstream.RatesClient {
	return upstream.NewRatesClient(cfg.Upstream.RatesBaseURL, upstreamTimeout(cfg))
}

func newRegistry(w *upstream.WeatherClient, c *upstream.CryptoClient, r *upstream.RatesClient) *tools.Registry {
	return tools.NewRegistryBuilder().
		WithTool(tools.NewCurrentWeatherTool(w)).
		WithTool(tools.NewWeatherForecastTool(w)).
		WithTool(tools.NewCryptoPriceTool(c)).
		WithTool(tools.NewExchangeRateTool(r)).
		Build()
}
