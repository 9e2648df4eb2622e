package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"symptom-checker-server/internal/llm"
	"symptom-checker-server/internal/models"
)

const (
	unrelatedInputError = "This input does not appear to be related to health symptoms. Please describe any physical symptoms you are experiencing."
	vagueInputWarning   = "No recognizable symptoms found. Please describe specific symptoms like headache, fever, nausea, etc."
)

// symptomPhrase is one dictionary entry of the keyword fallback. Aliases are
// colloquial spellings that map onto the same symptom.
type symptomPhrase struct {
	name    string
	aliases []string
}

var knownSymptomPhrases = []symptomPhrase{
	{name: "headache"},
	{name: "fever"},
	{name: "cough"},
	{name: "nausea", aliases: []string{"nauseous"}},
	{name: "vomiting", aliases: []string{"vomit", "throw up", "throwing up"}},
	{name: "diarrhea", aliases: []string{"loose stool"}},
	{name: "fatigue"},
	{name: "dizziness"},
	{name: "chest pain"},
	{name: "abdominal pain", aliases: []string{"stomach ache", "tummy ache"}},
	{name: "back pain"},
	{name: "sore throat"},
	{name: "runny nose"},
	{name: "congestion"},
	{name: "shortness of breath"},
	{name: "muscle aches"},
	{name: "joint pain"},
	{name: "rash"},
	{name: "itching"},
	{name: "swelling"},
	{name: "bloating"},
	{name: "constipation", aliases: []string{"can't poop"}},
	{name: "insomnia"},
	{name: "anxiety"},
	{name: "depression"},
	{name: "loss of appetite"},
	{name: "weight loss"},
	{name: "weight gain"},
	{name: "blurred vision"},
	{name: "ear pain"},
	{name: "toothache"},
	{name: "heartburn"},
}

var healthKeywords = []string{
	"feel", "pain", "hurt", "sick", "ill", "symptom", "health", "medical", "doctor", "body", "ache",
}

// extractionReply is the JSON object the language collaborator is asked for.
type extractionReply struct {
	Symptoms   []string `json:"symptoms"`
	IsValid    bool     `json:"isValid"`
	Warnings   []string `json:"warnings"`
	Confidence float64  `json:"confidence"`
	Error      string   `json:"error"`
}

// SymptomExtractor turns free text into normalized symptoms.
type SymptomExtractor struct {
	client llm.Client
	logger *zap.Logger
}

// NewSymptomExtractor uses client when it is non-nil and the keyword
// dictionary otherwise.
func NewSymptomExtractor(client llm.Client, logger *zap.Logger) *SymptomExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SymptomExtractor{client: client, logger: logger}
}

// Extract never fails: collaborator problems fall back to keyword matching.
// The returned symptoms are normalized and IsValid reflects whether any remain.
func (e *SymptomExtractor) Extract(ctx context.Context, input string) models.ParseResult {
	reply, outcome := llm.GenerateJSON(ctx, e.client, extractionPrompt(input), func(raw string, err error) extractionReply {
		e.logger.Warn("symptom extraction fell back to keyword matching", zap.Error(err))
		return keywordExtraction(input)
	})

	result := models.ParseResult{
		Symptoms:      NormalizeSymptoms(reply.Symptoms),
		Warnings:      nonNilStrings(reply.Warnings),
		OriginalInput: input,
	}
	result.IsValid = len(result.Symptoms) > 0
	if !result.IsValid {
		result.Error = strings.TrimSpace(reply.Error)
	}

	e.logger.Debug("extracted symptoms",
		zap.String("outcome", outcome.String()),
		zap.Strings("symptoms", result.Symptoms),
		zap.Bool("valid", result.IsValid))
	return result
}

func extractionPrompt(input string) string {
	return fmt.Sprintf(`You are a medical symptom parser. Extract the individual symptoms from the patient's text and check that they are medical symptoms.

Input: %q

Instructions:
1. Extract each discrete symptom.
2. Convert colloquial terms to clinical terms ("tummy ache" becomes "abdominal pain").
3. Split compound phrases ("headache and nausea" becomes ["headache", "nausea"]).
4. Add a warning for every non-medical or unclear term.
5. If the text is not about health at all (cars, weather, recipes), set "error" to a short message asking the user to describe physical symptoms.

Respond with a single JSON object of this shape and nothing else:
{"symptoms": ["symptom"], "isValid": true, "warnings": ["warning"], "confidence": 0.0, "error": ""}

Examples:
"I have a headache and vomit" -> {"symptoms": ["headache", "vomiting"], "isValid": true, "warnings": [], "confidence": 0.95}
"I feel bad today" -> {"symptoms": [], "isValid": false, "warnings": ["'feel bad' is too vague - please describe specific symptoms"], "confidence": 0.2}
"my car is broken" -> {"symptoms": [], "isValid": false, "warnings": [], "confidence": 0.1, "error": "This input appears to be about car problems, not health symptoms. Please describe any physical symptoms you're experiencing."}`, input)
}

// keywordExtraction scans input against the fixed phrase dictionary. Matches
// are ordered by where they first appear in the text.
func keywordExtraction(input string) extractionReply {
	lowered := strings.ToLower(input)

	type match struct {
		name     string
		position int
	}
	matches := make([]match, 0)
	for _, phrase := range knownSymptomPhrases {
		if position := firstPhraseIndex(lowered, phrase); position >= 0 {
			matches = append(matches, match{name: phrase.name, position: position})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].position < matches[j].position
	})

	reply := extractionReply{Symptoms: make([]string, 0, len(matches)), Warnings: make([]string, 0)}
	for _, m := range matches {
		reply.Symptoms = append(reply.Symptoms, m.name)
	}
	if len(reply.Symptoms) > 0 {
		reply.IsValid = true
		return reply
	}

	if containsAny(lowered, healthKeywords) {
		reply.Warnings = append(reply.Warnings, vagueInputWarning)
		return reply
	}
	reply.Error = unrelatedInputError
	return reply
}

// firstPhraseIndex returns the earliest position at which the phrase, its
// space-less spelling or one of its aliases starts a word, or -1.
func firstPhraseIndex(text string, phrase symptomPhrase) int {
	candidates := append([]string{phrase.name, strings.ReplaceAll(phrase.name, " ", "")}, phrase.aliases...)
	best := -1
	for _, candidate := range candidates {
		if position := wordIndex(text, candidate); position >= 0 && (best < 0 || position < best) {
			best = position
		}
	}
	return best
}

func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if wordIndex(text, needle) >= 0 {
			return true
		}
	}
	return false
}

// wordIndex is strings.Index restricted to matches at the start of a word, so
// "rash" does not match inside "crash". Suffixes are allowed ("vomiting").
func wordIndex(text string, needle string) int {
	offset := 0
	for {
		position := strings.Index(text[offset:], needle)
		if position < 0 {
			return -1
		}
		position += offset
		previous, _ := utf8.DecodeLastRuneInString(text[:position])
		if position == 0 || !(unicode.IsLetter(previous) || unicode.IsDigit(previous)) {
			return position
		}
		offset = position + 1
	}
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return make([]string, 0)
	}
	return values
}
