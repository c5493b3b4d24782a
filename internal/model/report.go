package model

import "time"

// ConfidenceBand buckets a field's self-reported confidence for accuracy
// analysis. Everything outside the three upper bands (including missing
// confidence) collapses into BandLow.
type ConfidenceBand string

const (
	BandPerfect ConfidenceBand = "perfect" // exactly 100
	BandHigh    ConfidenceBand = "high"    // 90–99
	BandMedium  ConfidenceBand = "medium"  // 80–89
	BandLow     ConfidenceBand = "low"     // 79 and below, or missing
)

// Bands lists all confidence bands in report order.
func Bands() []ConfidenceBand {
	return []ConfidenceBand{BandPerfect, BandHigh, BandMedium, BandLow}
}

// BandFor classifies a confidence value. A nil confidence is bucketed low:
// the enrichment step suppresses sub-threshold values so declared
// confidences below 70 should not appear, but the analyzer does not rely
// on that.
func BandFor(confidence *int) ConfidenceBand {
	if confidence == nil || *confidence < 70 {
		return BandLow
	}
	c := *confidence
	switch {
	case c == 100:
		return BandPerfect
	case c >= 90:
		return BandHigh
	case c >= 80:
		return BandMedium
	default:
		return BandLow
	}
}

// MatchCounter is a total/matches tally with its rounded accuracy percentage.
type MatchCounter struct {
	Total    int `json:"total" yaml:"total"`
	Matches  int `json:"matches" yaml:"matches"`
	Accuracy int `json:"accuracy" yaml:"accuracy"`
}

// Finalize computes the rounded accuracy percentage (0 when Total is 0).
func (m *MatchCounter) Finalize() {
	m.Accuracy = percentage(m.Matches, m.Total)
}

// ConfidenceLevelStats aggregates comparisons inside one confidence band.
type ConfidenceLevelStats struct {
	Range              string                  `json:"range" yaml:"range"`
	TotalFields        int                     `json:"totalFields" yaml:"totalFields"`
	MatchingFields     int                     `json:"matchingFields" yaml:"matchingFields"`
	AccuracyPercentage int                     `json:"accuracyPercentage" yaml:"accuracyPercentage"`
	FieldBreakdown     map[string]MatchCounter `json:"fieldBreakdown" yaml:"fieldBreakdown"`
}

// FieldAccuracyStats aggregates comparisons for one attribute field.
type FieldAccuracyStats struct {
	TotalComparisons    int                              `json:"totalComparisons" yaml:"totalComparisons"`
	Matches             int                              `json:"matches" yaml:"matches"`
	AccuracyPercentage  int                              `json:"accuracyPercentage" yaml:"accuracyPercentage"`
	ConfidenceBreakdown map[ConfidenceBand]MatchCounter `json:"confidenceBreakdown" yaml:"confidenceBreakdown"`
}

// AccuracyReport compares one execution's AI output against ground truth,
// stratified by the model's self-reported confidence. Derived on demand,
// never persisted.
type AccuracyReport struct {
	ExecutionID      int64                                   `json:"executionId" yaml:"executionId"`
	ExecutionDate    time.Time                               `json:"executionDate" yaml:"executionDate"`
	Provider         string                                  `json:"provider" yaml:"provider"`
	TotalRecords     int                                     `json:"totalRecords" yaml:"totalRecords"`
	OverallAccuracy  int                                     `json:"overallAccuracy" yaml:"overallAccuracy"`
	ConfidenceLevels map[ConfidenceBand]*ConfidenceLevelStats `json:"confidenceLevels" yaml:"confidenceLevels"`
	FieldAccuracy    map[string]*FieldAccuracyStats           `json:"fieldAccuracy" yaml:"fieldAccuracy"`
}

func percentage(matches, total int) int {
	if total == 0 {
		return 0
	}
	return int(float64(matches)/float64(total)*100 + 0.5)
}
