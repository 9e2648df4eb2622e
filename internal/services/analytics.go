package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"

	"symptom-checker-server/internal/models"
)

const (
	topRankingSize    = 10
	monthBucketLayout = "2006-01"
)

// HistoryReader returns a user's records from since onwards, oldest first.
type HistoryReader interface {
	FindSince(ctx context.Context, userID string, since time.Time) ([]models.SymptomHistory, error)
}

// AnalyticsService summarizes a user's recent history.
type AnalyticsService struct {
	history HistoryReader
	now     func() time.Time
}

func NewAnalyticsService(history HistoryReader) *AnalyticsService {
	return &AnalyticsService{history: history, now: time.Now}
}

// Summarize aggregates the records of the last months months.
func (s *AnalyticsService) Summarize(ctx context.Context, userID string, months int) (*models.AnalyticsSummary, error) {
	if months < 1 {
		return nil, fmt.Errorf("%w: months must be at least 1", ErrValidation)
	}

	to := s.now().UTC()
	from := to.AddDate(0, -months, 0)

	records, err := s.history.FindSince(ctx, userID, from)
	if err != nil {
		return nil, fmt.Errorf("load history for analytics: %w", err)
	}

	summary := BuildAnalyticsSummary(records, from, to, months)
	return &summary, nil
}

// BuildAnalyticsSummary reduces records, which must be in ascending timestamp
// order. Rankings hold at most ten entries by descending count; equal counts
// keep the order in which the entries were first seen.
func BuildAnalyticsSummary(records []models.SymptomHistory, from, to time.Time, months int) models.AnalyticsSummary {
	symptoms := newTally()
	diseases := newTally()
	monthly := make(map[string]int)

	for _, record := range records {
		for _, symptom := range record.ProcessedSymptoms {
			symptoms.add(NormalizeSymptom(symptom))
		}
		for _, prediction := range record.Predictions {
			diseases.add(strings.TrimSpace(prediction.Disease))
		}
		monthly[record.Timestamp.UTC().Format(monthBucketLayout)]++
	}

	return models.AnalyticsSummary{
		TotalChecks: len(records),
		TopSymptoms: lo.Map(symptoms.top(topRankingSize), func(entry tallyEntry, _ int) models.SymptomCount {
			return models.SymptomCount{Symptom: entry.key, Count: entry.count}
		}),
		TopDiseases: lo.Map(diseases.top(topRankingSize), func(entry tallyEntry, _ int) models.DiseaseCount {
			return models.DiseaseCount{Disease: entry.key, Count: entry.count}
		}),
		MonthlyData: monthly,
		Period: models.AnalyticsPeriod{
			From:   from,
			To:     to,
			Months: months,
		},
	}
}

type tallyEntry struct {
	key   string
	count int
}

// tally counts keys and remembers the order they were first added in.
type tally struct {
	entries []tallyEntry
	index   map[string]int
}

func newTally() *tally {
	return &tally{index: make(map[string]int)}
}

func (t *tally) add(key string) {
	if key == "" {
		return
	}
	if position, ok := t.index[key]; ok {
		t.entries[position].count++
		return
	}
	t.index[key] = len(t.entries)
	t.entries = append(t.entries, tallyEntry{key: key, count: 1})
}

func (t *tally) top(limit int) []tallyEntry {
	ranked := append([]tallyEntry(nil), t.entries...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].count > ranked[j].count
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
