// Package providers implements the model backends behind schema.LLMProvider.
package providers

import (
	"context"
	"fmt"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"

	"github.com/windvane/windvane/internal/schema"
)

// AnthropicProvider implements schema.LLMProvider on the Anthropic Messages
// API. Requests are never retried here; failures propagate to the loop.
type AnthropicProvider struct {
	client       *anthropic.Client
	defaultModel string
}

// NewAnthropicProvider constructs a provider with an injected credential.
func NewAnthropicProvider(apiKey, defaultModel string) *AnthropicProvider {
	cl := anthropic.NewClient(
		anthropicopt.WithAPIKey(apiKey),
	)
	return &AnthropicProvider{
		client:       &cl,
		defaultModel: defaultModel,
	}
}

func (p *AnthropicProvider) DefaultModel() string { return p.defaultModel }

// Chat sends one model turn: the full conversation plus the tool catalog,
// normalised back into a schema.LLMResponse.
func (p *AnthropicProvider) Chat(
	ctx context.Context,
	messages schema.Messages,
	catalog []schema.ToolDescriptor,
	opts schema.ChatOptions,
) (schema.LLMResponse, error) {
	model := opts.Model
	if model == "" {
		model = p.defaultModel
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	system, converted, err := toMessageParams(messages)
	if err != nil {
		return schema.LLMResponse{}, err
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		Messages:  converted,
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if opts.Temperature > 0 {
		params.Temperature = anthropic.Float(opts.Temperature)
	}
	if len(catalog) > 0 {
		params.Tools = toToolParams(catalog)
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return schema.LLMResponse{}, fmt.Errorf("anthropic request: %w", err)
	}
	return parseMessage(msg), nil
}
