package translation

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// OpenAITranslator translates through an OpenAI-compatible chat completions API
type OpenAITranslator struct {
	config *Config
	client *openai.Client
}

// NewOpenAITranslator creates a new translator instance
func NewOpenAITranslator(config *Config) *OpenAITranslator {
	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAITranslator{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
	}
}

// Translate sends text as the user message and returns the reply verbatim
func (t *OpenAITranslator) Translate(ctx context.Context, text string) (string, error) {
	if t.config.APIKey == "" {
		return "", fmt.Errorf("OpenAI API key not found")
	}

	if t.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.config.Timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model: t.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: t.config.SystemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		Temperature: t.config.Temperature,
	}

	resp, err := t.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no translation returned")
	}

	return resp.Choices[0].Message.Content, nil
}

// Name returns the provider name
func (t *OpenAITranslator) Name() string {
	return "openai/" + t.config.Model
}
