package services

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestExtractFallbackFindsSymptomsAndAliases(t *testing.T) {
	extractor := NewSymptomExtractor(nil, nil)

	result := extractor.Extract(context.Background(), "I have a headache and vomit")
	if !result.IsValid {
		t.Fatalf("expected valid result, got %#v", result)
	}
	if !reflect.DeepEqual(result.Symptoms, []string{"headache", "vomiting"}) {
		t.Fatalf("Symptoms = %#v, want [headache vomiting]", result.Symptoms)
	}
	if result.OriginalInput != "I have a headache and vomit" {
		t.Fatalf("original input changed: %q", result.OriginalInput)
	}
	if result.Error != "" {
		t.Fatalf("unexpected error message %q", result.Error)
	}
}

func TestExtractFallbackOrdersByPositionAndNormalizes(t *testing.T) {
	extractor := NewSymptomExtractor(nil, nil)

	result := extractor.Extract(context.Background(), "Tummy ache since Monday, I feel nauseous and have a sorethroat. Tummy ache again.")
	want := []string{"abdominal_pain", "nausea", "sore_throat"}
	if !reflect.DeepEqual(result.Symptoms, want) {
		t.Fatalf("Symptoms = %#v, want %#v", result.Symptoms, want)
	}
}

func TestExtractFallbackRejectsUnrelatedInput(t *testing.T) {
	extractor := NewSymptomExtractor(nil, nil)

	result := extractor.Extract(context.Background(), "my car is broken")
	if result.IsValid {
		t.Fatalf("expected invalid result, got %#v", result)
	}
	if len(result.Symptoms) != 0 {
		t.Fatalf("expected no symptoms, got %#v", result.Symptoms)
	}
	if !strings.Contains(result.Error, "health") {
		t.Fatalf("expected non-health error, got %q", result.Error)
	}
}

func TestExtractFallbackMatchesWholeWordsOnly(t *testing.T) {
	extractor := NewSymptomExtractor(nil, nil)

	for _, input := range []string{"I was in a car crash", "I will sell my car"} {
		result := extractor.Extract(context.Background(), input)
		if result.IsValid || len(result.Symptoms) != 0 {
			t.Fatalf("%q: expected no symptoms, got %#v", input, result.Symptoms)
		}
		if result.Error != unrelatedInputError {
			t.Fatalf("%q: expected unrelated-input error, got %q (warnings %#v)", input, result.Error, result.Warnings)
		}
	}

	result := extractor.Extract(context.Background(), "Rash on my arm and I keep vomiting")
	if !reflect.DeepEqual(result.Symptoms, []string{"rash", "vomiting"}) {
		t.Fatalf("Symptoms = %#v, want [rash vomiting]", result.Symptoms)
	}
}

func TestWordIndex(t *testing.T) {
	tests := []struct {
		text   string
		needle string
		want   int
	}{
		{text: "rash", needle: "rash", want: 0},
		{text: "a crash and a rash", needle: "rash", want: 14},
		{text: "crash", needle: "rash", want: -1},
		{text: "(rash)", needle: "rash", want: 1},
		{text: "feeling ill", needle: "ill", want: 8},
		{text: "i will", needle: "ill", want: -1},
		{text: "coughing", needle: "cough", want: 0},
	}

	for _, tt := range tests {
		if got := wordIndex(tt.text, tt.needle); got != tt.want {
			t.Fatalf("wordIndex(%q, %q) = %d, want %d", tt.text, tt.needle, got, tt.want)
		}
	}
}

func TestExtractFallbackWarnsOnVagueHealthInput(t *testing.T) {
	extractor := NewSymptomExtractor(nil, nil)

	result := extractor.Extract(context.Background(), "I feel terrible today")
	if result.IsValid {
		t.Fatalf("expected invalid result, got %#v", result)
	}
	if result.Error != "" {
		t.Fatalf("expected no error for health-related input, got %q", result.Error)
	}
	if len(result.Warnings) != 1 || result.Warnings[0] != vagueInputWarning {
		t.Fatalf("expected vague-input warning, got %#v", result.Warnings)
	}
}

func TestExtractUsesCollaboratorJSON(t *testing.T) {
	client := replyWith("Here you go:\n```json\n{\"symptoms\": [\"Headache\", \"Abdominal Pain\", \"headache\"], \"isValid\": false, \"warnings\": [\"'stuff' is unclear\"], \"confidence\": 0.8}\n```", nil)
	extractor := NewSymptomExtractor(client, nil)

	result := extractor.Extract(context.Background(), "my head and tummy hurt, also stuff")
	if !reflect.DeepEqual(result.Symptoms, []string{"headache", "abdominal_pain"}) {
		t.Fatalf("Symptoms = %#v", result.Symptoms)
	}
	if !result.IsValid {
		t.Fatal("expected validity to follow the symptom list, not the collaborator flag")
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected collaborator warning to be kept, got %#v", result.Warnings)
	}
	if client.callCount() != 1 {
		t.Fatalf("expected exactly one collaborator call, got %d", client.callCount())
	}
}

func TestExtractKeepsCollaboratorErrorForNonHealthInput(t *testing.T) {
	client := replyWith(`{"symptoms": [], "isValid": false, "warnings": [], "confidence": 0.1, "error": "This input is about weather, not health symptoms."}`, nil)
	extractor := NewSymptomExtractor(client, nil)

	result := extractor.Extract(context.Background(), "what's the weather like")
	if result.IsValid || result.Error == "" {
		t.Fatalf("expected invalid result with error, got %#v", result)
	}
	if result.Symptoms == nil || result.Warnings == nil {
		t.Fatalf("expected empty non-nil slices, got %#v", result)
	}
}

func TestExtractFallsBackOnCollaboratorProblems(t *testing.T) {
	tests := map[string]*stubLLM{
		"call failure": replyWith("", errors.New("quota exceeded")),
		"no json":      replyWith("I think you have a headache.", nil),
		"invalid json": replyWith(`{"symptoms": ["headache",}`, nil),
		"wrong shape":  replyWith(`{"symptoms": "headache"}`, nil),
	}

	for name, client := range tests {
		t.Run(name, func(t *testing.T) {
			result := NewSymptomExtractor(client, nil).Extract(context.Background(), "bad headache and a fever")
			if !reflect.DeepEqual(result.Symptoms, []string{"headache", "fever"}) {
				t.Fatalf("expected keyword fallback, got %#v", result)
			}
		})
	}
}
