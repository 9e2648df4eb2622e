package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"symptom-checker-server/internal/llm"
	"symptom-checker-server/internal/models"
)

const (
	adviceDisclaimer = "This is not professional medical advice. Please consult a healthcare provider for accurate diagnosis and treatment."

	highProbabilityThreshold = 80
	lowProbabilityThreshold  = 30
)

// AdviceCache stores advice that the language collaborator produced
// successfully. Fallback advice is never cached.
type AdviceCache interface {
	Get(ctx context.Context, key string) (models.MedicalAdvice, bool, error)
	Set(ctx context.Context, key string, advice models.MedicalAdvice) error
}

// AdviceGenerator attaches care guidance to predictions.
type AdviceGenerator struct {
	client  llm.Client
	cache   AdviceCache
	workers int
	logger  *zap.Logger
}

// NewAdviceGenerator runs at most workers advice calls at once per request.
// cache may be nil.
func NewAdviceGenerator(client llm.Client, cache AdviceCache, workers int, logger *zap.Logger) *AdviceGenerator {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdviceGenerator{client: client, cache: cache, workers: workers, logger: logger}
}

// AdviseAll generates advice for every prediction and returns them in the
// same order. A failure for one prediction only affects that entry.
func (g *AdviceGenerator) AdviseAll(ctx context.Context, predictions []models.Prediction, symptoms []string, age string) []models.EnhancedPrediction {
	enhanced := make([]models.EnhancedPrediction, len(predictions))

	var group errgroup.Group
	group.SetLimit(g.workers)
	for i, prediction := range predictions {
		group.Go(func() error {
			enhanced[i] = models.EnhancedPrediction{
				Disease:       prediction.Disease,
				Probability:   prediction.Probability,
				MedicalAdvice: g.Advise(ctx, prediction.Disease, prediction.Probability, symptoms, age),
			}
			return nil
		})
	}
	// Advise never fails, so every task returns nil.
	group.Wait()

	return enhanced
}

// Advise asks the language collaborator for advice on one condition. When the
// reply cannot be parsed the critical level is derived from the reply text and
// the probability; when the call fails only the probability is used.
func (g *AdviceGenerator) Advise(ctx context.Context, disease string, probability float64, symptoms []string, age string) models.MedicalAdvice {
	key := adviceCacheKey(disease, probability, symptoms, age)
	if g.cache != nil {
		advice, ok, err := g.cache.Get(ctx, key)
		if err != nil {
			g.logger.Warn("advice cache read failed", zap.String("disease", disease), zap.Error(err))
		} else if ok {
			return advice
		}
	}

	thresholdLevel := levelForProbability(probability)
	advice, outcome := llm.GenerateJSON(ctx, g.client, advicePrompt(disease, probability, symptoms, age), func(raw string, err error) models.MedicalAdvice {
		g.logger.Warn("advice generation fell back to generic guidance",
			zap.String("disease", disease),
			zap.Error(err))
		return fallbackAdvice(disease, probability, levelFromText(raw, thresholdLevel))
	})
	if outcome != llm.OutcomeParsed {
		return advice
	}

	advice = completeAdvice(advice, thresholdLevel)
	if g.cache != nil {
		if err := g.cache.Set(ctx, key, advice); err != nil {
			g.logger.Warn("advice cache write failed", zap.String("disease", disease), zap.Error(err))
		}
	}
	return advice
}

func advicePrompt(disease string, probability float64, symptoms []string, age string) string {
	ageInfo := "Age not provided"
	if age != "" {
		ageInfo = fmt.Sprintf("Patient Age: %s years old", age)
	}

	return fmt.Sprintf(`As a medical assistant, give structured advice for this patient.

Predicted Disease: %s
Confidence Level: %s%%
Reported Symptoms: %s
%s

Cover:
1. General care instructions (3-4 specific items)
2. When to seek medical attention
3. Critical level (Low, Medium or High)
4. Important precautions (2-3 items)
5. Recommended next steps

Keep it accurate and actionable and always recommend consulting a healthcare professional.

Respond with a single JSON object with exactly these keys and nothing else:
{"general_care": ["..."], "seek_attention": "...", "critical_level": "Low|Medium|High", "precautions": ["..."], "next_steps": "...", "disclaimer": "..."}`,
		disease, formatProbability(probability), strings.Join(symptoms, ", "), ageInfo)
}

func levelForProbability(probability float64) models.CriticalLevel {
	switch {
	case probability > highProbabilityThreshold:
		return models.CriticalHigh
	case probability < lowProbabilityThreshold:
		return models.CriticalLow
	}
	return models.CriticalMedium
}

// levelFromText lets urgency words in an unparsable reply override the
// probability-derived level. Empty text keeps the default.
func levelFromText(raw string, fallback models.CriticalLevel) models.CriticalLevel {
	text := strings.ToLower(raw)
	switch {
	case strings.Contains(text, "high") || strings.Contains(text, "urgent"):
		return models.CriticalHigh
	case strings.Contains(text, "low") || strings.Contains(text, "mild"):
		return models.CriticalLow
	}
	return fallback
}

func fallbackAdvice(disease string, probability float64, level models.CriticalLevel) models.MedicalAdvice {
	return models.MedicalAdvice{
		GeneralCare: []string{
			"Monitor symptoms closely and track any changes",
			"Stay hydrated with water and clear fluids",
			"Get adequate rest and avoid strenuous activities",
			"Maintain good hygiene and wash hands frequently",
		},
		SeekAttention: fmt.Sprintf("Based on your symptoms and the %s prediction (%s%% confidence), consult a healthcare provider for proper evaluation and diagnosis.",
			disease, formatProbability(probability)),
		CriticalLevel: level,
		Precautions: []string{
			"Do not ignore worsening symptoms",
			"Follow medical advice strictly if consulting a doctor",
			"Avoid self-medication without professional guidance",
		},
		NextSteps:  "Schedule an appointment with your healthcare provider for proper diagnosis and treatment plan.",
		Disclaimer: adviceDisclaimer,
	}
}

// completeAdvice fills the fields a parsed reply may have left out.
func completeAdvice(advice models.MedicalAdvice, thresholdLevel models.CriticalLevel) models.MedicalAdvice {
	level, ok := models.ParseCriticalLevel(string(advice.CriticalLevel))
	if !ok {
		level = thresholdLevel
	}
	advice.CriticalLevel = level
	if strings.TrimSpace(advice.Disclaimer) == "" {
		advice.Disclaimer = adviceDisclaimer
	}
	advice.GeneralCare = nonNilStrings(advice.GeneralCare)
	advice.Precautions = nonNilStrings(advice.Precautions)
	return advice
}

func formatProbability(probability float64) string {
	return strconv.FormatFloat(probability, 'f', -1, 64)
}

func adviceCacheKey(disease string, probability float64, symptoms []string, age string) string {
	sum := sha256.Sum256([]byte(strings.Join([]string{
		strings.ToLower(disease),
		formatProbability(probability),
		strings.Join(symptoms, ","),
		age,
	}, "|")))
	return "advice:" + hex.EncodeToString(sum[:])
}
