package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigPath returns the default configuration file path: ~/.windvane/config.yaml.
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".windvane/config.yaml"
	}
	return filepath.Join(home, ".windvane", "config.yaml")
}

// DataDir returns the windvane data directory: ~/.windvane.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".windvane"
	}
	return filepath.Join(home, ".windvane")
}

// Load reads and parses the config file at path, then overlays credentials
// from the environment. If path is empty, ConfigPath() is used. A missing
// file yields DefaultConfig() with the env overlay applied.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return &cfg, nil
}

// applyEnv overlays environment credentials onto cfg. The environment wins
// over file values so deployments can keep secrets out of the config file.
func applyEnv(cfg *Config) {
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.Credentials.AnthropicAPIKey = v
	}
	if v := os.Getenv("OPENWEATHER_API_KEY"); v != "" {
		cfg.Credentials.OpenWeatherAPIKey = v
	}
}

// Save writes cfg to path as YAML. If path is empty, ConfigPath() is used.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
