// Package cmd implements the windvane CLI using cobra.
package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/windvane/windvane/internal/config"
	"github.com/windvane/windvane/internal/container"
)

const version = "0.1.0"
const logo = "🌬️"

var rootLogs bool

// rootCmd is the base command. With no arguments it starts the interactive
// loop; with arguments it treats them as a single one-shot question.
var rootCmd = &cobra.Command{
	Use:   "windvane [question...]",
	Short: logo + " windvane — tool-using assistant over a stdio tool provider",
	Long: logo + ` windvane — an assistant that answers questions by driving a
model through live weather, crypto and exchange-rate tools.`,
	Args: cobra.ArbitraryArgs,
	RunE: runRoot,
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().BoolVar(&rootLogs, "logs", false, "Show runtime logs")
	rootCmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		_ = godotenv.Load()
		setupLogging()
	}

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(statusCmd)
}

// setupLogging routes slog to stderr so stdout stays clean for answers
// (and, in serve, for protocol frames). Info level only with --logs.
func setupLogging() {
	level := slog.LevelWarn
	if rootLogs {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

var exitCommands = map[string]bool{
	"exit": true,
	"quit": true,
	"q":    true,
}

func runRoot(_ *cobra.Command, args []string) error {
	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	c, err := container.New(cfg)
	if err != nil {
		return err
	}

	if len(args) > 0 {
		return runSingleQuery(c, strings.Join(args, " "))
	}
	return runInteractive(c)
}

// runSingleQuery answers one question and exits.
func runSingleQuery(c *container.Container, query string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	answer, err := c.Runner().Answer(ctx, query)
	if err != nil {
		return err
	}
	printAnswer(answer)
	return nil
}

// runInteractive is the REPL: reads a question per line, answers it, and
// prompts again. A failed query is reported and the loop continues; SIGINT
// aborts only the in-flight query, or exits when idle at the prompt.
func runInteractive(c *container.Container) error {
	fmt.Printf("%s Interactive mode (type 'quit' or Ctrl+C to exit)\n\n", logo)

	interrupts := newInterruptRouter()
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("Your question: ")

		if !scanner.Scan() {
			fmt.Println("\nGoodbye!")
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if exitCommands[strings.ToLower(line)] {
			fmt.Println("Goodbye!")
			return nil
		}

		ctx, done := interrupts.queryContext()
		answer, err := c.Runner().Answer(ctx, line)
		done()
		switch {
		case errors.Is(err, context.Canceled):
			fmt.Println("\nQuery cancelled.")
		case err != nil:
			fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		default:
			printAnswer(answer)
		}
	}
}

// interruptRouter directs SIGINT/SIGTERM at the in-flight query when there
// is one, and at the whole process when the REPL is idle at the prompt.
type interruptRouter struct {
	mu     sync.Mutex
	cancel context.CancelFunc
}

func newInterruptRouter() *interruptRouter {
	r := &interruptRouter{}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		for range sigChan {
			r.mu.Lock()
			cancel := r.cancel
			r.mu.Unlock()
			if cancel != nil {
				cancel()
				continue
			}
			fmt.Println("\nGoodbye!")
			os.Exit(0)
		}
	}()
	return r
}

// queryContext returns a context cancelled by the next interrupt. The done
// func detaches the query from the router; callers must invoke it before
// handling the result.
func (r *interruptRouter) queryContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	r.mu.Lock()
	r.cancel = cancel
	r.mu.Unlock()

	done := func() {
		r.mu.Lock()
		r.cancel = nil
		r.mu.Unlock()
		cancel()
	}
	return ctx, done
}

func printAnswer(text string) {
	fmt.Printf("\n%s windvane\n%s\n\n", logo, text)
}
