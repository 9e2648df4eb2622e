package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPStrategy posts the symptom list to a model service.
type HTTPStrategy struct {
	url        string
	httpClient *http.Client
}

// NewHTTPStrategy calls the model service at url with the given timeout.
func NewHTTPStrategy(url string, timeout time.Duration) *HTTPStrategy {
	return &HTTPStrategy{url: url, httpClient: &http.Client{Timeout: timeout}}
}

func (s *HTTPStrategy) Name() string { return "http" }

// Score posts {"symptoms": [...]} and decodes the Response body. Non-2xx
// statuses fail unless the body carries an error message worth surfacing.
func (s *HTTPStrategy) Score(ctx context.Context, symptoms []string) (*Response, error) {
	body, err := json.Marshal(map[string][]string{"symptoms": symptoms})
	if err != nil {
		return nil, fmt.Errorf("encode symptoms: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build model request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call model service: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read model response: %w", err)
	}

	var decoded Response
	decodeErr := json.Unmarshal(raw, &decoded)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr == nil && decoded.Error != "" {
			return nil, fmt.Errorf("model service returned status %d: %s", resp.StatusCode, decoded.Error)
		}
		return nil, fmt.Errorf("model service returned status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("failed to parse model output: %w", decodeErr)
	}
	return &decoded, nil
}
