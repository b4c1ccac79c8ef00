package translation

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiTranslator translates through the Gemini API
type GeminiTranslator struct {
	config *Config
	model  string
	client *genai.Client
}

// NewGeminiTranslator creates a Gemini-backed translator. No request is
// made until Translate is called.
func NewGeminiTranslator(ctx context.Context, config *Config) (*GeminiTranslator, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: config.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := config.Model
	if model == "" || model == DefaultConfig().Model {
		model = DefaultGeminiModel
	}

	return &GeminiTranslator{
		config: config,
		model:  model,
		client: client,
	}, nil
}

// Translate sends text with the system prompt as instruction
func (t *GeminiTranslator) Translate(ctx context.Context, text string) (string, error) {
	if t.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.config.Timeout)
		defer cancel()
	}

	genConfig := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(t.config.SystemPrompt(), genai.RoleUser),
		Temperature:       genai.Ptr(t.config.Temperature),
	}

	resp, err := t.client.Models.GenerateContent(ctx, t.model, genai.Text(text), genConfig)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no translation returned")
	}

	return resp.Text(), nil
}

// Name returns the provider name
func (t *GeminiTranslator) Name() string {
	return "gemini/" + t.model
}
