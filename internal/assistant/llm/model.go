// Package llm defines the two model calls the assistant makes and their
// chat-completions implementation.
package llm

import (
	"context"
	"errors"

	apperrors "cert-tracker/internal/common/errors"
	"cert-tracker/internal/common/genai"
)

// Model is the language-model capability injected into the assistant.
// GenerateSQL is sampled with low randomness, Narrate with moderate randomness.
type Model interface {
	GenerateSQL(ctx context.Context, messages []genai.Message) (string, error)
	Narrate(ctx context.Context, messages []genai.Message) (string, error)
}

// Completer is satisfied by *genai.Client.
type Completer interface {
	Complete(ctx context.Context, req genai.ChatRequest) (string, error)
}

type Config struct {
	SQLTemperature       float64
	NarrationTemperature float64
}

// ChatModel sends both call shapes to one chat deployment.
type ChatModel struct {
	client Completer
	config Config
}

func NewChatModel(client Completer, config Config) *ChatModel {
	return &ChatModel{client: client, config: config}
}

func (m *ChatModel) GenerateSQL(ctx context.Context, messages []genai.Message) (string, error) {
	return m.client.Complete(ctx, genai.ChatRequest{
		Messages:    messages,
		Temperature: m.config.SQLTemperature,
	})
}

func (m *ChatModel) Narrate(ctx context.Context, messages []genai.Message) (string, error) {
	return m.client.Complete(ctx, genai.ChatRequest{
		Messages:    messages,
		Temperature: m.config.NarrationTemperature,
	})
}

// Failure classifies a model call error for logging.
func Failure(err error) *apperrors.StandardError {
	if errors.Is(err, genai.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewLLMTimeoutError()
	}
	return apperrors.NewLLMRequestFailedError(err)
}
