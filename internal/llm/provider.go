package llm

import (
	"context"
	"fmt"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const DefaultModel = openai.GPT4o

// ChatRequest is a single-turn completion: one system message, one user message.
type ChatRequest struct {
	SystemPrompt string
	Input        string
	Temperature  float64
}

// Provider generates text for a chat request. Implementations make exactly one
// attempt per call.
type Provider interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// OpenAIProvider calls the chat completions API of OpenAI or any compatible endpoint.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider builds a provider for apiKey. baseURL may be empty for the
// public API; otherwise it must include the /v1 prefix.
func NewOpenAIProvider(apiKey, baseURL, model string) *OpenAIProvider {
	cfg := openai.DefaultConfig(strings.TrimSpace(apiKey))
	if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
		cfg.BaseURL = trimmed
	}
	model = strings.TrimSpace(model)
	if model == "" {
		model = DefaultModel
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (p *OpenAIProvider) Complete(ctx context.Context, req ChatRequest) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: wireTemperature(req.Temperature),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.Input},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// The SDK drops a zero temperature from the payload, which the API reads as 1.
func wireTemperature(value float64) float32 {
	if value == 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(value)
}
