package infrastructure

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
	"github.com/victorwamb/IA-PF/internal/entities"
)

const (
	DefaultOpenAIModel    = "gpt-4o-mini"
	maxCompletionTokens   = 500
	completionTemperature = 0.5
)

// OpenAICompleter wraps a langchaingo chat model for the /api/chat endpoint.
type OpenAICompleter struct {
	llm       llms.Model
	modelName string
}

// NewOpenAICompleter builds the model. baseURL is optional and points at an
// OpenAI-compatible server.
func NewOpenAICompleter(apiKey, model, baseURL string) (*OpenAICompleter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key required")
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithModel(model),
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create openai model: %w", err)
	}
	return &OpenAICompleter{llm: llm, modelName: model}, nil
}

func (c *OpenAICompleter) Complete(ctx context.Context, system string, history []entities.ChatTurn, message string) (string, error) {
	messages := make([]llms.MessageContent, 0, len(history)+2)
	messages = append(messages, llms.TextParts(schema.ChatMessageTypeSystem, system))
	for _, turn := range history {
		role := schema.ChatMessageTypeHuman
		if turn.Role == entities.RoleAssistant {
			role = schema.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(role, turn.Content))
	}
	messages = append(messages, llms.TextParts(schema.ChatMessageTypeHuman, message))

	response, err := c.llm.GenerateContent(ctx, messages,
		llms.WithMaxTokens(maxCompletionTokens),
		llms.WithTemperature(completionTemperature),
	)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response choices")
	}
	return response.Choices[0].Content, nil
}

func (c *OpenAICompleter) Model() string {
	return c.modelName
}
