package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"symptom-checker-server/internal/config"
	"symptom-checker-server/internal/models"
)

// ErrPredictionFailed marks any failure of the scoring collaborator. It is
// fatal for the request: advice cannot be generated without a candidate.
var ErrPredictionFailed = errors.New("ML Model Error")

// Response is the wire contract shared by every scoring collaborator.
type Response struct {
	Predictions []models.Prediction `json:"predictions"`
	Error       string              `json:"error,omitempty"`
}

// Strategy scores a normalized symptom list. Implementations make a single
// attempt and report transport or protocol problems as errors.
type Strategy interface {
	Name() string
	Score(ctx context.Context, symptoms []string) (*Response, error)
}

// Engine validates and ranks the output of a Strategy.
type Engine struct {
	strategy       Strategy
	maxPredictions int
	logger         *zap.Logger
}

// NewEngine wraps strategy. maxPredictions <= 0 keeps every prediction.
func NewEngine(strategy Strategy, maxPredictions int, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{strategy: strategy, maxPredictions: maxPredictions, logger: logger}
}

// NewStrategy builds the strategy selected in the configuration.
func NewStrategy(cfg config.ScoringConfig) (Strategy, error) {
	switch cfg.Strategy {
	case config.StrategyRules, "":
		return NewRuleStrategy(), nil
	case config.StrategyProcess:
		return NewProcessStrategy(cfg.Command, cfg.Script, cfg.Timeout), nil
	case config.StrategyHTTP:
		return NewHTTPStrategy(cfg.ServiceURL, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unsupported scoring strategy %q", cfg.Strategy)
	}
}

// Predict returns predictions ranked by descending probability. Ties keep the
// order the collaborator reported them in.
func (e *Engine) Predict(ctx context.Context, symptoms []string) ([]models.Prediction, error) {
	if len(symptoms) == 0 {
		return nil, fmt.Errorf("%w: no symptoms to score", ErrPredictionFailed)
	}

	resp, err := e.strategy.Score(ctx, symptoms)
	if err != nil {
		e.logger.Error("scoring collaborator failed", zap.String("strategy", e.strategy.Name()), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPredictionFailed, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: empty response", ErrPredictionFailed)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrPredictionFailed, resp.Error)
	}

	predictions := make([]models.Prediction, 0, len(resp.Predictions))
	for _, prediction := range resp.Predictions {
		disease := strings.TrimSpace(prediction.Disease)
		if disease == "" {
			continue
		}
		predictions = append(predictions, models.Prediction{
			Disease:     disease,
			Probability: clampProbability(prediction.Probability),
		})
	}
	if len(predictions) == 0 {
		return nil, fmt.Errorf("%w: No predictions returned", ErrPredictionFailed)
	}

	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].Probability > predictions[j].Probability
	})
	if e.maxPredictions > 0 && len(predictions) > e.maxPredictions {
		predictions = predictions[:e.maxPredictions]
	}

	e.logger.Debug("scored symptoms",
		zap.String("strategy", e.strategy.Name()),
		zap.Int("symptoms", len(symptoms)),
		zap.Int("predictions", len(predictions)))
	return predictions, nil
}

func clampProbability(value float64) float64 {
	switch {
	case math.IsNaN(value) || value < 0:
		return 0
	case value > 100:
		return 100
	}
	return value
}
