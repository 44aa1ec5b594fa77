// Package agent drives the model ↔ tool-provider loop that turns one
// natural-language query into a final textual answer.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/windvane/windvane/internal/mcp"
	"github.com/windvane/windvane/internal/schema"
	"github.com/windvane/windvane/internal/shared/textutils"
)

// NoResponse is the fallback answer when the final model turn carries no
// text block.
const NoResponse = "No response generated"

// ErrTurnLimit reports that the model kept requesting tools past the
// configured turn cap without producing a final answer.
var ErrTurnLimit = errors.New("agent: turn limit exceeded without a final answer")

// Invoker is the session surface the loop needs. *mcp.Session satisfies it.
type Invoker interface {
	ListTools(ctx context.Context) ([]schema.ToolDescriptor, error)
	CallTool(ctx context.Context, name string, args map[string]any) (string, error)
	Close() error
}

// Dialer opens a fresh session to the tool provider.
type Dialer func(ctx context.Context) (Invoker, error)

// Settings holds the loop's model parameters and safety bound.
type Settings struct {
	Model       string
	MaxTokens   int
	Temperature float64
	// MaxTurns caps the number of model turns per query; 0 means the
	// default of 10.
	MaxTurns int
}

const defaultMaxTurns = 10

// Runner owns the tool-use loop. Each Answer call opens its own session;
// queries are processed one at a time, never interleaved.
type Runner struct {
	provider schema.LLMProvider
	dial     Dialer
	settings Settings
}

// NewRunner creates a Runner over the given model backend and session dialer.
func NewRunner(provider schema.LLMProvider, dial Dialer, settings Settings) *Runner {
	return &Runner{provider: provider, dial: dial, settings: settings}
}

// Answer processes one query to completion.
//
// The conversation starts with a single user message and is only ever
// extended: each tool-requesting turn appends the full assistant response
// followed by one message carrying every tool result of that turn, so a
// query completed after N tool turns holds exactly 1+2N messages. The
// session is released on every exit path, including cancellation.
func (r *Runner) Answer(ctx context.Context, query string) (string, error) {
	session, err := r.dial(ctx)
	if err != nil {
		return "", err
	}
	defer session.Close() //nolint:errcheck

	catalog, err := session.ListTools(ctx)
	if err != nil {
		return "", err
	}
	slog.Info("Session open", "tools", len(catalog))

	conversation := schema.NewMessages()
	conversation.AddUser(query)

	opts := schema.NewChatOptions(r.settings.Model, r.settings.MaxTokens, r.settings.Temperature)
	maxTurns := r.settings.MaxTurns
	if maxTurns <= 0 {
		maxTurns = defaultMaxTurns
	}

	for turn := 0; turn < maxTurns; turn++ {
		resp, err := r.provider.Chat(ctx, conversation, catalog, opts)
		if err != nil {
			return "", fmt.Errorf("model turn %d: %w", turn+1, err)
		}

		if !resp.HasToolCalls() {
			if resp.Content != nil && *resp.Content != "" {
				return *resp.Content, nil
			}
			return NoResponse, nil
		}

		slog.Info("Tool calls requested",
			"turn", turn+1,
			"calls", textutils.ToolHint(resp.ToolCalls),
		)

		// Append the assistant turn and the complete result set before the
		// next model call; the model never sees a partial result set.
		conversation.AddAssistant(resp.Content, resp.ToolCalls)

		results, err := r.dispatch(ctx, session, resp.ToolCalls)
		if err != nil {
			return "", err
		}
		conversation.AddToolResults(results)
	}

	return "", ErrTurnLimit
}

// dispatch invokes every tool call of one turn. The calls are mutually
// independent, so they run concurrently; results land in request order.
// Tool-level failures become error-text results paired to their call id;
// only transport breakage aborts the turn.
func (r *Runner) dispatch(ctx context.Context, session Invoker, calls []schema.ToolCall) ([]schema.ToolResult, error) {
	results := make([]schema.ToolResult, len(calls))

	g, gctx := errgroup.WithContext(ctx)
	for i, call := range calls {
		i, call := i, call
		g.Go(func() error {
			// Unknown tool names go to the session too: the provider decides
			// how to report them, and the model always gets a paired result.
			text, err := session.CallTool(gctx, call.Name, call.Arguments)
			if err != nil {
				var invErr *mcp.InvocationError
				if errors.As(err, &invErr) {
					results[i] = schema.ToolResult{ID: call.ID, Content: invErr.Message, IsError: true}
					return nil
				}
				return err
			}
			results[i] = schema.ToolResult{ID: call.ID, Content: text}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
