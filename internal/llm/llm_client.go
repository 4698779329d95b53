package llm

import (
	"context"
	"fmt"

	"aiupstart.com/go-improve/internal/config"
)

// LLMClient defines the interface for interacting with different LLM providers.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (LLMResponse, error)
}

// TokenUsage is the token accounting reported by the provider, zero when unknown.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// LLMResponse is the text reply of a single generation call.
type LLMResponse struct {
	Content string
	Usage   TokenUsage
}

// New builds the client for the configured provider, wrapped with metrics and logging.
func New(cfg config.LLMConfig) (LLMClient, error) {
	model := cfg.Model
	if model == "" {
		model = config.DefaultModel(cfg.Provider)
	}
	var (
		client LLMClient
		err    error
	)
	switch cfg.Provider {
	case config.ProviderGemini:
		client, err = NewGeminiClient(context.Background(), cfg.APIKey, model, cfg.BaseURL)
	case config.ProviderOpenAI:
		client = NewOpenAIClient(cfg.APIKey, model, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return NewInstrumentedClient(cfg.Provider, client), nil
}
