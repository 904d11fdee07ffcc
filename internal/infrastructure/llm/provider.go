package llm

import (
	"context"
	"fmt"

	"gsheetagent/internal/domain/entity"
	"gsheetagent/internal/domain/repository"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Options selects and configures a chat-completion backend.
type Options struct {
	Provider  string
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
}

// New builds the translator for opts.Provider.
func New(ctx context.Context, opts Options, prompt entity.Prompt) (repository.Translator, error) {
	switch opts.Provider {
	case ProviderOpenAI, "":
		return NewOpenAITranslator(opts.APIKey, opts.BaseURL, opts.Model, opts.MaxTokens, prompt), nil
	case ProviderGemini:
		return NewGeminiTranslator(ctx, opts.APIKey, opts.BaseURL, opts.Model, opts.MaxTokens, prompt)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", opts.Provider)
	}
}
