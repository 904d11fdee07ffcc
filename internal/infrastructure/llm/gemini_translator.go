package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"gsheetagent/internal/domain/entity"
	"gsheetagent/internal/domain/repository"
	"gsheetagent/internal/infrastructure/metrics"
)

var errEmptyCandidate = errors.New("empty candidate in generation")

// GeminiTranslator uses the Gemini generateContent API with a JSON response
// MIME type.
type GeminiTranslator struct {
	client    *genai.Client
	model     string
	prompt    entity.Prompt
	maxTokens int32
}

var _ repository.Translator = (*GeminiTranslator)(nil)

func NewGeminiTranslator(ctx context.Context, apiKey, baseURL, model string, maxTokens int, prompt entity.Prompt) (*GeminiTranslator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiTranslator{
		client:    client,
		model:     model,
		prompt:    prompt,
		maxTokens: int32(maxTokens),
	}, nil
}

func (t *GeminiTranslator) Provider() string {
	return ProviderGemini
}

func (t *GeminiTranslator) Translate(ctx context.Context, instruction string) (string, error) {
	result, err := t.client.Models.GenerateContent(ctx,
		t.model,
		genai.Text(entity.UserMessage(instruction)),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(t.prompt.Text, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			MaxOutputTokens:   t.maxTokens,
		},
	)
	if err != nil {
		metrics.IncLLMRequest(ProviderGemini, "error")
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := result.Text()
	if text == "" {
		metrics.IncLLMRequest(ProviderGemini, "error")
		return "", errEmptyCandidate
	}

	metrics.IncLLMRequest(ProviderGemini, "ok")
	return text, nil
}
