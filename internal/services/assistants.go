package services

import (
	"context"
	"fmt"

	"viralhub-backend-go/internal/llm"
	"viralhub-backend-go/internal/storage"
)

const msgAssistantNotFound = "Asistente no encontrado"

// RunResult is the outcome of one assistant invocation. Mock is set only when no
// provider is configured.
type RunResult struct {
	AssistantID int64  `json:"assistantId"`
	Output      string `json:"output"`
	Mock        bool   `json:"mock,omitempty"`
}

// AssistantDispatcher runs a stored assistant persona against caller input.
// A nil Provider selects mock mode.
type AssistantDispatcher struct {
	Store    storage.Gateway
	Provider llm.Provider
}

func NewAssistantDispatcher(store storage.Gateway, provider llm.Provider) *AssistantDispatcher {
	return &AssistantDispatcher{Store: store, Provider: provider}
}

// MockMode reports whether runs are answered without calling a provider.
func (d *AssistantDispatcher) MockMode() bool {
	return d.Provider == nil
}

// Run resolves the assistant and produces one completion. Unknown assistants
// yield a 404 ServiceError before any provider call; provider failures yield a
// *GenerationError. There is no retry.
func (d *AssistantDispatcher) Run(ctx context.Context, assistantID int64, input string) (RunResult, error) {
	assistant, ok, err := d.Store.GetAssistant(ctx, assistantID)
	if err != nil {
		return RunResult{}, err
	}
	if !ok {
		return RunResult{}, ErrNotFound(msgAssistantNotFound)
	}

	if d.MockMode() {
		return RunResult{
			AssistantID: assistant.ID,
			Output:      fmt.Sprintf("Mock response from assistant \"%s\" with input: %s", assistant.Name, input),
			Mock:        true,
		}, nil
	}

	output, err := d.Provider.Complete(ctx, llm.ChatRequest{
		SystemPrompt: assistant.SystemPrompt,
		Input:        input,
		Temperature:  assistant.EffectiveTemperature(),
	})
	if err != nil {
		return RunResult{}, &GenerationError{Err: err}
	}
	return RunResult{AssistantID: assistant.ID, Output: output}, nil
}
