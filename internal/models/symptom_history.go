package models

import (
	"time"

	"gorm.io/datatypes"
)

// SymptomHistory is a persisted snapshot of one completed analysis.
// Records are written once and never updated; only the owner may delete them.
type SymptomHistory struct {
	BaseModel
	UserID            string                                  `gorm:"size:36;index;not null" json:"userId"`
	OriginalInput     string                                  `gorm:"type:text;not null" json:"originalInput"`
	ProcessedSymptoms datatypes.JSONSlice[string]             `gorm:"not null" json:"processedSymptoms"`
	Predictions       datatypes.JSONSlice[EnhancedPrediction] `json:"predictions"`
	Age               string                                  `gorm:"size:10" json:"age,omitempty"`
	Timestamp         time.Time                               `gorm:"index;not null" json:"timestamp"`
}

// TableName keeps the table name stable across drivers.
func (SymptomHistory) TableName() string {
	return "symptom_histories"
}

// SymptomCount is one entry of the top-symptoms ranking.
type SymptomCount struct {
	Symptom string `json:"symptom"`
	Count   int    `json:"count"`
}

// DiseaseCount is one entry of the top-diseases ranking.
type DiseaseCount struct {
	Disease string `json:"disease"`
	Count   int    `json:"count"`
}

// AnalyticsPeriod describes the window an AnalyticsSummary covers.
type AnalyticsPeriod struct {
	From   time.Time `json:"from"`
	To     time.Time `json:"to"`
	Months int       `json:"months"`
}

// AnalyticsSummary is recomputed on every request from a user's history.
type AnalyticsSummary struct {
	TotalChecks int             `json:"totalChecks"`
	TopSymptoms []SymptomCount  `json:"topSymptoms"`
	TopDiseases []DiseaseCount  `json:"topDiseases"`
	MonthlyData map[string]int  `json:"monthlyData"`
	Period      AnalyticsPeriod `json:"period"`
}

// HistoryFilter narrows a history listing. Zero times leave that side of the
// range open; Page starts at 1.
type HistoryFilter struct {
	StartDate time.Time
	EndDate   time.Time
	Page      int
	Limit     int
}

// Offset is the number of rows skipped before the current page.
func (f HistoryFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}
