package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"symptom-checker-server/internal/models"
)

const (
	analysisDisclaimer        = "This prediction is for informational purposes only. Always consult with healthcare professionals for medical advice."
	defaultHistorySaveTimeout = 5 * time.Second
)

// Extractor turns free text into a ParseResult.
type Extractor interface {
	Extract(ctx context.Context, input string) models.ParseResult
}

// Predictor ranks conditions for a normalized symptom list.
type Predictor interface {
	Predict(ctx context.Context, symptoms []string) ([]models.Prediction, error)
}

// Advisor attaches advice to ranked predictions, keeping their order.
type Advisor interface {
	AdviseAll(ctx context.Context, predictions []models.Prediction, symptoms []string, age string) []models.EnhancedPrediction
}

// HistoryWriter persists completed analyses.
type HistoryWriter interface {
	Create(ctx context.Context, record *models.SymptomHistory) error
}

// AnalysisInput is one analysis request. A non-empty Symptoms list wins over
// Text. UserID is empty for anonymous callers.
type AnalysisInput struct {
	Text     string
	Symptoms []string
	Age      string
	UserID   string
}

// AnalysisResult is the assembled response of a successful analysis.
type AnalysisResult struct {
	Predictions    []models.EnhancedPrediction `json:"predictions"`
	InputSymptoms  []string                    `json:"input_symptoms"`
	OriginalInput  string                      `json:"original_input"`
	Age            string                      `json:"age,omitempty"`
	Timestamp      time.Time                   `json:"timestamp"`
	Disclaimer     string                      `json:"disclaimer"`
	Warnings       []string                    `json:"warnings"`
	SavedToHistory bool                        `json:"savedToHistory"`
	HistoryID      string                      `json:"historyId,omitempty"`
}

// ParseOutcome is the result of a parse-only request.
type ParseOutcome struct {
	models.ParseResult
	SavedToHistory bool   `json:"savedToHistory"`
	HistoryID      string `json:"historyId,omitempty"`
}

// AnalysisService runs the symptom analysis pipeline.
type AnalysisService struct {
	extractor   Extractor
	predictor   Predictor
	advisor     Advisor
	history     HistoryWriter
	saveTimeout time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

func NewAnalysisService(extractor Extractor, predictor Predictor, advisor Advisor, history HistoryWriter, saveTimeout time.Duration, logger *zap.Logger) *AnalysisService {
	if saveTimeout <= 0 {
		saveTimeout = defaultHistorySaveTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisService{
		extractor:   extractor,
		predictor:   predictor,
		advisor:     advisor,
		history:     history,
		saveTimeout: saveTimeout,
		logger:      logger,
		now:         time.Now,
	}
}

// Analyze validates the input, extracts and scores symptoms, attaches advice
// and records the result for authenticated callers. Only validation,
// extraction and prediction failures are returned as errors.
func (s *AnalysisService) Analyze(ctx context.Context, input AnalysisInput) (*AnalysisResult, error) {
	symptoms := NormalizeSymptoms(input.Symptoms)
	text := strings.TrimSpace(input.Text)
	originalInput := text
	warnings := make([]string, 0)

	switch {
	case len(symptoms) > 0:
		if originalInput == "" {
			originalInput = strings.Join(symptoms, ", ")
		}
	case text != "":
		parsed := s.extractor.Extract(ctx, input.Text)
		if !parsed.IsValid || len(parsed.Symptoms) == 0 {
			return nil, &ExtractionError{Result: parsed}
		}
		symptoms = NormalizeSymptoms(parsed.Symptoms)
		warnings = append(warnings, parsed.Warnings...)
	default:
		return nil, fmt.Errorf("%w: either text or a non-empty symptoms list is required", ErrValidation)
	}

	predictions, err := s.predictor.Predict(ctx, symptoms)
	if err != nil {
		return nil, err
	}

	result := &AnalysisResult{
		Predictions:   s.advisor.AdviseAll(ctx, predictions, symptoms, input.Age),
		InputSymptoms: symptoms,
		OriginalInput: originalInput,
		Age:           input.Age,
		Timestamp:     s.now().UTC(),
		Disclaimer:    analysisDisclaimer,
		Warnings:      warnings,
	}

	if input.UserID != "" {
		result.HistoryID, result.SavedToHistory = s.record(ctx, &models.SymptomHistory{
			UserID:            input.UserID,
			OriginalInput:     result.OriginalInput,
			ProcessedSymptoms: result.InputSymptoms,
			Predictions:       result.Predictions,
			Age:               result.Age,
			Timestamp:         result.Timestamp,
		})
	}
	return result, nil
}

// ParseOnly runs the extractor alone. Valid results of authenticated callers
// are recorded without predictions.
func (s *AnalysisService) ParseOnly(ctx context.Context, input string, userID string) (*ParseOutcome, error) {
	if strings.TrimSpace(input) == "" {
		return nil, fmt.Errorf("%w: text is required", ErrValidation)
	}

	outcome := &ParseOutcome{ParseResult: s.extractor.Extract(ctx, input)}
	if outcome.IsValid && userID != "" {
		outcome.HistoryID, outcome.SavedToHistory = s.record(ctx, &models.SymptomHistory{
			UserID:            userID,
			OriginalInput:     outcome.OriginalInput,
			ProcessedSymptoms: outcome.Symptoms,
			Timestamp:         s.now().UTC(),
		})
	}
	return outcome, nil
}

// record writes a history entry on a context detached from the request so a
// disconnecting client does not abort the write. Errors are logged only.
func (s *AnalysisService) record(ctx context.Context, entry *models.SymptomHistory) (string, bool) {
	if s.history == nil {
		return "", false
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.saveTimeout)
	defer cancel()

	if err := s.history.Create(saveCtx, entry); err != nil {
		s.logger.Error("failed to save symptom history",
			zap.String("user_id", entry.UserID),
			zap.Error(err))
		return "", false
	}
	return entry.ID, true
}
