package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"symptom-checker-server/internal/config"
)

// GeminiClient calls the Gemini API through the genai SDK. The API key is
// sent as a request header, never in the URL.
type GeminiClient struct {
	client *genai.Client
	model  string
	cfg    config.LLMConfig
}

// NewGeminiClient constructs a Gemini-backed client from the LLM configuration.
func NewGeminiClient(cfg config.LLMConfig) (*GeminiClient, error) {
	return newGeminiClient(cfg, "")
}

// newGeminiClient overrides the API endpoint when baseURL is not empty.
func newGeminiClient(cfg config.LLMConfig, baseURL string) (*GeminiClient, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(context.Background(), clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  cfg.GeminiModel,
		cfg:    cfg,
	}, nil
}

// Generate sends the prompt as a single user turn and returns the text of the
// first candidate.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c == nil || c.client == nil {
		return "", errors.New("gemini client not initialized")
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.2),
	})
	if err != nil {
		return "", fmt.Errorf("call gemini: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", errors.New("gemini returned no text")
	}
	return text, nil
}
