package llm

import (
	"context"
	"errors"
	"fmt"

	"symptom-checker-server/internal/config"
)

// ErrNoClient is returned when no language collaborator is configured.
var ErrNoClient = errors.New("language model client not configured")

// Client is the language-understanding collaborator: a prompt goes in,
// free-form text that should contain one JSON object comes out.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewClient builds the client selected by cfg.Provider. The "none" provider
// yields a nil Client, which every caller treats as a failed call.
func NewClient(cfg config.LLMConfig) (Client, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAIClient(cfg), nil
	case config.ProviderGemini:
		client, err := NewGeminiClient(cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.ProviderNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}
