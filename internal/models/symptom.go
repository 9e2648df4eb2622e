package models

import "strings"

// ParseResult is the outcome of turning free text into normalized symptoms.
type ParseResult struct {
	Symptoms      []string `json:"symptoms"`
	IsValid       bool     `json:"isValid"`
	Warnings      []string `json:"warnings"`
	OriginalInput string   `json:"originalInput"`
	Error         string   `json:"error,omitempty"`
}

// Prediction is one ranked condition. Probability is a percentage in [0,100].
type Prediction struct {
	Disease     string  `json:"disease"`
	Probability float64 `json:"probability"`
}

// CriticalLevel is the coarse urgency attached to a piece of advice.
type CriticalLevel string

const (
	CriticalLow    CriticalLevel = "Low"
	CriticalMedium CriticalLevel = "Medium"
	CriticalHigh   CriticalLevel = "High"
)

// ParseCriticalLevel matches Low, Medium or High ignoring case and surrounding
// spaces and returns the canonical level.
func ParseCriticalLevel(value string) (CriticalLevel, bool) {
	for _, level := range []CriticalLevel{CriticalLow, CriticalMedium, CriticalHigh} {
		if strings.EqualFold(strings.TrimSpace(value), string(level)) {
			return level, true
		}
	}
	return "", false
}

// MedicalAdvice is the structured care guidance for a single prediction.
type MedicalAdvice struct {
	GeneralCare   []string      `json:"general_care"`
	SeekAttention string        `json:"seek_attention"`
	CriticalLevel CriticalLevel `json:"critical_level"`
	Precautions   []string      `json:"precautions"`
	NextSteps     string        `json:"next_steps"`
	Disclaimer    string        `json:"disclaimer"`
}

// EnhancedPrediction pairs a prediction with its generated advice.
type EnhancedPrediction struct {
	Disease       string        `json:"disease"`
	Probability   float64       `json:"probability"`
	MedicalAdvice MedicalAdvice `json:"medical_advice"`
}
