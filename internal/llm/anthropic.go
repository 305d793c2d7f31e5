package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/deixis/diagnose/internal/config"
)

const anthropicMaxTokens = 4096

// anthropicProvider talks to the Anthropic Messages API.
type anthropicProvider struct {
	client anthropic.Client
}

func newAnthropicProvider(creds *config.Credentials) (*anthropicProvider, error) {
	if creds.AnthropicKey == "" {
		return nil, ErrUnavailable{Reason: "ANTHROPIC_API_KEY is not set"}
	}

	client := anthropic.NewClient(
		option.WithAPIKey(creds.AnthropicKey),
		option.WithRequestTimeout(requestTimeout),
	)
	return &anthropicProvider{client: client}, nil
}

func (p *anthropicProvider) Diagnose(ctx context.Context, model string, req *Request) (string, error) {
	resp, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: anthropicMaxTokens,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt(req))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.AsText().Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("anthropic API call: response has no text content")
	}
	return strings.TrimSpace(text.String()), nil
}
