package scoring

import (
	"context"
	"math"

	"github.com/samber/lo"

	"symptom-checker-server/internal/models"
)

const (
	pointsPerMatch       = 20
	undifferentiatedName = "Undifferentiated condition"
)

// ConditionProfile lists the normalized symptoms that point to a condition.
type ConditionProfile struct {
	Disease  string
	Symptoms []string
}

var defaultConditionProfiles = []ConditionProfile{
	{Disease: "Influenza", Symptoms: []string{"fever", "cough", "fatigue", "muscle_aches", "headache", "sore_throat"}},
	{Disease: "Common Cold", Symptoms: []string{"runny_nose", "congestion", "sore_throat", "cough", "sneezing"}},
	{Disease: "COVID-19", Symptoms: []string{"fever", "cough", "fatigue", "shortness_of_breath", "loss_of_appetite"}},
	{Disease: "Gastroenteritis", Symptoms: []string{"nausea", "vomiting", "diarrhea", "abdominal_pain", "fever"}},
	{Disease: "Food Poisoning", Symptoms: []string{"nausea", "vomiting", "diarrhea", "abdominal_pain"}},
	{Disease: "Migraine", Symptoms: []string{"headache", "nausea", "blurred_vision", "dizziness"}},
	{Disease: "Pneumonia", Symptoms: []string{"cough", "fever", "chest_pain", "shortness_of_breath", "fatigue"}},
	{Disease: "Gastroesophageal Reflux Disease", Symptoms: []string{"heartburn", "chest_pain", "nausea", "bloating"}},
	{Disease: "Irritable Bowel Syndrome", Symptoms: []string{"abdominal_pain", "bloating", "constipation", "diarrhea"}},
	{Disease: "Allergic Rhinitis", Symptoms: []string{"runny_nose", "congestion", "itching", "sneezing"}},
	{Disease: "Generalized Anxiety Disorder", Symptoms: []string{"anxiety", "insomnia", "dizziness", "shortness_of_breath"}},
	{Disease: "Depression", Symptoms: []string{"depression", "insomnia", "fatigue", "loss_of_appetite", "weight_loss"}},
	{Disease: "Arthritis", Symptoms: []string{"joint_pain", "swelling", "muscle_aches", "back_pain"}},
	{Disease: "Dermatitis", Symptoms: []string{"rash", "itching", "swelling"}},
	{Disease: "Otitis Media", Symptoms: []string{"ear_pain", "fever", "headache"}},
	{Disease: "Dental Abscess", Symptoms: []string{"toothache", "swelling", "fever"}},
	{Disease: "Hypothyroidism", Symptoms: []string{"fatigue", "weight_gain", "constipation", "depression"}},
	{Disease: "Type 2 Diabetes", Symptoms: []string{"fatigue", "blurred_vision", "weight_loss"}},
}

// RuleStrategy is the deterministic placeholder scorer. Each condition scores
// min(100, matched*20), where matched counts input symptoms in its profile.
// It stands in for a trained model behind the same Strategy contract.
type RuleStrategy struct {
	profiles []ConditionProfile
}

// NewRuleStrategy uses the built-in condition table.
func NewRuleStrategy() *RuleStrategy {
	return &RuleStrategy{profiles: defaultConditionProfiles}
}

// NewRuleStrategyWithProfiles scores against a custom condition table.
func NewRuleStrategyWithProfiles(profiles []ConditionProfile) *RuleStrategy {
	return &RuleStrategy{profiles: profiles}
}

func (s *RuleStrategy) Name() string { return "rules" }

// Score never fails. Input matching no profile yields a single
// undifferentiated entry scored on the size of the symptom set.
func (s *RuleStrategy) Score(_ context.Context, symptoms []string) (*Response, error) {
	reported := lo.Uniq(symptoms)

	predictions := make([]models.Prediction, 0)
	for _, profile := range s.profiles {
		matched := len(lo.Intersect(profile.Symptoms, reported))
		if matched == 0 {
			continue
		}
		predictions = append(predictions, models.Prediction{
			Disease:     profile.Disease,
			Probability: scoreForCount(matched),
		})
	}

	if len(predictions) == 0 {
		predictions = append(predictions, models.Prediction{
			Disease:     undifferentiatedName,
			Probability: scoreForCount(len(reported)),
		})
	}
	return &Response{Predictions: predictions}, nil
}

func scoreForCount(count int) float64 {
	return math.Min(100, float64(count*pointsPerMatch))
}
