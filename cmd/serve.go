package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/windvane/windvane/internal/config"
	"github.com/windvane/windvane/internal/container"
	"github.com/windvane/windvane/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the tool provider on stdin/stdout",
	Long: `Runs the tool provider: a JSON-RPC server speaking newline-delimited
frames on stdin/stdout. Normally spawned by the client, but it can be attached
to any compatible host.`,
	RunE: runServe,
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	registry, err := container.NewToolRegistry(cfg)
	if err != nil {
		return err
	}

	slog.Info("Tool provider starting", "tools", registry.Len())

	server := mcp.NewServer("windvane", version, registry)
	return server.Serve(context.Background(), os.Stdin, os.Stdout)
}
