package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/deixis/diagnose/internal/config"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// openaiProvider talks to the OpenAI chat completions API, or any
// OpenAI-compatible endpoint via OPENAI_BASE_URL.
type openaiProvider struct {
	client openai.Client
}

func newOpenAIProvider(creds *config.Credentials) (*openaiProvider, error) {
	if creds.OpenAIKey == "" {
		return nil, ErrUnavailable{Reason: "OPENAI_API_KEY is not set"}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(creds.OpenAIKey),
		option.WithRequestTimeout(requestTimeout),
	}
	if creds.OpenAIBaseURL != "" {
		opts = append(opts, option.WithBaseURL(creds.OpenAIBaseURL))
	}

	return &openaiProvider{client: openai.NewClient(opts...)}, nil
}

func (p *openaiProvider) Diagnose(ctx context.Context, model string, req *Request) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt(req)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai API call: response has no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
