package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/windvane/windvane/internal/config"
	"github.com/windvane/windvane/internal/container"
)

var (
	watchCron  string
	watchEvery int
)

var watchCmd = &cobra.Command{
	Use:   "watch <question...>",
	Short: "Re-ask a question on a schedule",
	Long: `Runs a standing question on a schedule and prints each answer, e.g.:

  windvane watch --cron "0 9 * * *" what is the weather in London
  windvane watch --every 300 BTC price`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchCron, "cron", "c", "", "Cron expression (e.g. '0 9 * * *')")
	watchCmd.Flags().IntVarP(&watchEvery, "every", "e", 0, "Run every N seconds")
}

func runWatch(_ *cobra.Command, args []string) error {
	if (watchCron == "") == (watchEvery == 0) {
		return fmt.Errorf("specify exactly one of --cron or --every")
	}

	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c, err := container.New(cfg)
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ask := func() {
		answer, err := c.Runner().Answer(ctx, query)
		if err != nil {
			fmt.Printf("[%s] Error: %v\n", time.Now().Format("15:04:05"), err)
			return
		}
		fmt.Printf("[%s]", time.Now().Format("15:04:05"))
		printAnswer(answer)
	}

	spec := watchCron
	if spec == "" {
		spec = fmt.Sprintf("@every %ds", watchEvery)
	}

	sched := cron.New()
	if _, err := sched.AddFunc(spec, ask); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	fmt.Printf("%s Watching %q on schedule %q (Ctrl+C to stop)\n", logo, query, spec)
	ask()
	sched.Start()
	defer sched.Stop()

	<-ctx.Done()
	return nil
}
