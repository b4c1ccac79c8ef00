package translation

import (
	"context"
	"fmt"
	"time"
)

// Translator translates one piece of text into the configured language
type Translator interface {
	// Translate returns the translation of text. Whitespace and newline
	// structure are expected to be preserved by the model.
	Translate(ctx context.Context, text string) (string, error)

	// Name returns the provider name
	Name() string
}

// Config holds the settings shared by all providers
type Config struct {
	Provider    string // "openai", "gemini" or "identity"
	APIKey      string
	BaseURL     string // optional, for OpenAI-compatible gateways
	Model       string
	Language    string // target language, e.g. "zh" or "German"
	Temperature float32
	Timeout     time.Duration // per request
	Prompt      string        // overrides the default system prompt when set
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:    "openai",
		Model:       "gpt-4o-mini",
		Language:    "zh",
		Temperature: 0.3,
		Timeout:     2 * time.Minute,
	}
}

// DefaultGeminiModel is used when the gemini provider is selected without a model
const DefaultGeminiModel = "gemini-2.0-flash"

// SystemPrompt returns the instruction sent with every request
func (c *Config) SystemPrompt() string {
	if c.Prompt != "" {
		return c.Prompt
	}
	return fmt.Sprintf("You are a translator into %[1]s. Whatever language the user writes in, "+
		"detect it and reply with the translation in %[1]s only. Keep the meaning and the structure, "+
		"preserving all whitespace and newlines exactly. Do not add explanations. Do not translate code.",
		c.Language)
}

// NewTranslator creates the provider selected by config
func NewTranslator(config *Config) (Translator, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case "openai", "":
		if config.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAITranslator(config), nil

	case "gemini":
		if config.APIKey == "" {
			return nil, fmt.Errorf("Gemini API key is required")
		}
		return NewGeminiTranslator(context.Background(), config)

	case "identity":
		return IdentityTranslator{}, nil

	default:
		return nil, fmt.Errorf("unknown translation provider: %s", config.Provider)
	}
}

// IdentityTranslator returns its input unchanged. It backs --dry-run.
type IdentityTranslator struct{}

// Translate returns text
func (IdentityTranslator) Translate(ctx context.Context, text string) (string, error) {
	return text, ctx.Err()
}

// Name returns the provider name
func (IdentityTranslator) Name() string {
	return "identity"
}
