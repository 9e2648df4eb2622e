package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoJSON is returned when a response contains no balanced JSON object.
var ErrNoJSON = errors.New("no JSON object found in model response")

// Outcome tells the caller which path GenerateJSON took.
type Outcome int

const (
	// OutcomeParsed means the model answered with a usable JSON object.
	OutcomeParsed Outcome = iota
	// OutcomeParseFallback means the model answered but the JSON was missing or invalid.
	OutcomeParseFallback
	// OutcomeCallFallback means the call itself failed.
	OutcomeCallFallback
)

func (o Outcome) String() string {
	switch o {
	case OutcomeParsed:
		return "parsed"
	case OutcomeParseFallback:
		return "parse_fallback"
	case OutcomeCallFallback:
		return "call_fallback"
	}
	return "unknown"
}

// Fallback builds a value when the model cannot be used. raw is the model
// text for parse failures and empty for call failures.
type Fallback[T any] func(raw string, err error) T

// GenerateJSON runs one prompt through client and decodes the first balanced
// JSON object of the reply into T. Any failure is handed to fallback; a nil
// client counts as a failed call. No retries are made.
func GenerateJSON[T any](ctx context.Context, client Client, prompt string, fallback Fallback[T]) (T, Outcome) {
	if client == nil {
		return fallback("", ErrNoClient), OutcomeCallFallback
	}

	raw, err := client.Generate(ctx, prompt)
	if err != nil {
		return fallback("", err), OutcomeCallFallback
	}

	span, ok := FirstJSONObject(raw)
	if !ok {
		return fallback(raw, ErrNoJSON), OutcomeParseFallback
	}

	var value T
	if err := json.Unmarshal([]byte(span), &value); err != nil {
		return fallback(raw, fmt.Errorf("decode model JSON: %w", err)), OutcomeParseFallback
	}
	return value, OutcomeParsed
}

// FirstJSONObject returns the first balanced {...} span of text. Braces inside
// JSON string literals are ignored so prose around the object is tolerated.
func FirstJSONObject(text string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		ch := text[i]

		if start < 0 {
			if ch == '{' {
				start = i
				depth = 1
			}
			continue
		}

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
