package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ProcessStrategy runs an out-of-process model, passing the JSON symptom array
// as the last argument and reading a Response from stdout.
type ProcessStrategy struct {
	command string
	args    []string
	timeout time.Duration
}

// NewProcessStrategy runs `command [script] <json>`. An empty script runs the
// command directly.
func NewProcessStrategy(command, script string, timeout time.Duration) *ProcessStrategy {
	var args []string
	if script != "" {
		args = append(args, script)
	}
	return &ProcessStrategy{command: command, args: args, timeout: timeout}
}

func (s *ProcessStrategy) Name() string { return "process" }

// Score runs the model once. A non-zero exit or unparsable stdout is an error.
func (s *ProcessStrategy) Score(ctx context.Context, symptoms []string) (*Response, error) {
	payload, err := json.Marshal(symptoms)
	if err != nil {
		return nil, fmt.Errorf("encode symptoms: %w", err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	args := append(append([]string{}, s.args...), string(payload))
	cmd := exec.CommandContext(ctx, s.command, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("model process failed: %v: %s", err, strings.TrimSpace(stderr.String()))
	}

	var resp Response
	if err := json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse model output: %w", err)
	}
	return &resp, nil
}
