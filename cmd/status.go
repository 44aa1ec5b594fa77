package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/windvane/windvane/internal/config"
	"github.com/windvane/windvane/internal/container"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show windvane status",
	RunE:  runStatus,
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfgPath := config.ConfigPath()

	fmt.Printf("%s windvane Status\n\n", logo)

	_, statErr := os.Stat(cfgPath)
	cfgMark := "✗"
	if statErr == nil {
		cfgMark = "✓"
	}
	fmt.Printf("Config:  %s %s\n", cfgPath, cfgMark)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("  (could not load config: %v)\n", err)
		return nil
	}

	fmt.Printf("Model:   %s\n\n", cfg.Agent.Model)

	fmt.Println("Credentials:")
	printCredential("Anthropic", cfg.Credentials.AnthropicAPIKey)
	printCredential("OpenWeatherMap", cfg.Credentials.OpenWeatherAPIKey)
	fmt.Println()

	fmt.Println("Tools:")
	registry, err := container.NewToolRegistry(cfg)
	if err != nil {
		fmt.Printf("  (catalog unavailable: %v)\n", err)
		return nil
	}
	for _, desc := range registry.List() {
		fmt.Printf("  %-18s %s\n", desc.Name, desc.Description)
	}
	return nil
}

func printCredential(label, key string) {
	if key != "" {
		fmt.Printf("  %-16s ✓\n", label)
	} else {
		fmt.Printf("  %-16s (not set)\n", label)
	}
}
