package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"gsheetagent/internal/domain/entity"
	"gsheetagent/internal/domain/repository"
	"gsheetagent/internal/infrastructure/metrics"
)

var errNoChoices = errors.New("no choices in completion")

// OpenAITranslator talks to OpenAI or any endpoint speaking the same
// chat-completions protocol.
type OpenAITranslator struct {
	client      *openai.Client
	model       string
	prompt      entity.Prompt
	maxTokens   int
	temperature float32
}

var _ repository.Translator = (*OpenAITranslator)(nil)

func NewOpenAITranslator(apiKey, baseURL, model string, maxTokens int, prompt entity.Prompt) *OpenAITranslator {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &OpenAITranslator{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		prompt:      prompt,
		maxTokens:   maxTokens,
		temperature: 0.2,
	}
}

func (t *OpenAITranslator) Provider() string {
	return ProviderOpenAI
}

func (t *OpenAITranslator) Translate(ctx context.Context, instruction string) (string, error) {
	resp, err := t.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: t.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: t.prompt.Text,
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: entity.UserMessage(instruction),
				},
			},
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Temperature: t.temperature,
			MaxTokens:   t.maxTokens,
		},
	)
	if err != nil {
		metrics.IncLLMRequest(ProviderOpenAI, "error")
		return "", fmt.Errorf("openai chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		metrics.IncLLMRequest(ProviderOpenAI, "error")
		return "", errNoChoices
	}

	metrics.IncLLMRequest(ProviderOpenAI, "ok")
	return resp.Choices[0].Message.Content, nil
}
