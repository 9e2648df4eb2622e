package services

import (
	"strings"

	"github.com/samber/lo"
)

const symptomSeparator = "_"

// NormalizeSymptom lowercases raw, trims it and joins the remaining words
// with underscores. Normalizing an already normalized symptom is a no-op.
func NormalizeSymptom(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(raw)), symptomSeparator)
}

// NormalizeSymptoms normalizes every entry, drops empty ones and removes
// duplicates while keeping first-seen order.
func NormalizeSymptoms(raw []string) []string {
	normalized := lo.FilterMap(raw, func(item string, _ int) (string, bool) {
		symptom := NormalizeSymptom(item)
		return symptom, symptom != ""
	})
	return lo.Uniq(normalized)
}
