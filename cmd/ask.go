package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/windvane/windvane/internal/config"
	"github.com/windvane/windvane/internal/container"
)

var askCmd = &cobra.Command{
	Use:   "ask <question...>",
	Short: "Answer one question and exit",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		cfg, err := config.Load(config.ConfigPath())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		c, err := container.New(cfg)
		if err != nil {
			return err
		}
		return runSingleQuery(c, strings.Join(args, " "))
	},
}
