package ai

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when a provider answers without usable text.
var ErrEmptyResponse = errors.New("ai: empty response")

// Generator turns a prompt into reply text.
// This interface allows for swapping different AI providers (Gemini, OpenAI, etc.).
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// JSONGenerator asks the model for a JSON document and returns it with any
// markdown fences removed.
type JSONGenerator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}
