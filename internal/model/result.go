package model

// Rating buckets for the aggregate pass rate
const (
	RatingExcellent = "excellent"
	RatingGood      = "good"
	RatingFair      = "fair"
	RatingPoor      = "poor"
)

// Rating maps a pass rate to its letter rating
func Rating(passRate float64) string {
	switch {
	case passRate >= 0.90:
		return RatingExcellent
	case passRate >= 0.70:
		return RatingGood
	case passRate >= 0.50:
		return RatingFair
	}
	return RatingPoor
}

// AnomalyBounds is the normal range for a field; Lower <= Upper always holds
type AnomalyBounds struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// AnomalyStats carries the distribution statistics behind an anomaly report
type AnomalyStats struct {
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Median float64 `json:"median"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
	IQR    float64 `json:"iqr"`
}

// AnomalyReport describes the outliers found for one field. String fields are
// reported by length under the key "<field> (length)".
type AnomalyReport struct {
	FieldType      string        `json:"field_type"` // "number" or "length"
	Method         string        `json:"method"`     // "iqr" or "zscore"
	Bounds         AnomalyBounds `json:"bounds"`
	Stats          AnomalyStats  `json:"stats"`
	OutlierIndices []int         `json:"outlier_indices"`
}

// RuleStat summarizes one rule across the whole collection
type RuleStat struct {
	Name          string   `json:"name"`
	Severity      Severity `json:"severity"`
	Passed        int      `json:"passed"`
	Failed        int      `json:"failed"`
	FailedSamples []int    `json:"failed_samples,omitempty"` // capped, first occurrences
}

// CheckResult is the aggregate verdict for one collection. It is produced
// once per run, never mutated, and its JSON form is the canonical shape
// consumed by report rendering and diffing.
type CheckResult struct {
	Total    int     `json:"total"`
	Passed   int     `json:"passed"`
	Failed   int     `json:"failed"`
	PassRate float64 `json:"pass_rate"`
	Rating   string  `json:"rating"`

	ErrorCount   int `json:"error_count"`
	WarningCount int `json:"warning_count"`
	InfoCount    int `json:"info_count"`

	RuleFailures map[string]int      `json:"rule_failures"`
	RuleResults  map[string]RuleStat `json:"rule_results,omitempty"`

	FailedSamples []int `json:"failed_samples,omitempty"`

	Duplicates     [][]int `json:"duplicates"`
	NearDuplicates [][]int `json:"near_duplicates"`

	Anomalies    map[string]AnomalyReport `json:"anomalies"`
	AnomalyCount int                      `json:"anomaly_count"`

	// Sampling metadata, set when the loader evaluated a subset
	Sampled       bool `json:"sampled,omitempty"`
	SampledCount  int  `json:"sampled_count,omitempty"`
	OriginalCount int  `json:"original_count,omitempty"`

	// Per-(rule, sample) outcomes; kept for callers, not part of the
	// canonical JSON shape
	Outcomes []RuleOutcome `json:"-"`
}

// BatchResult aggregates per-file results of a directory check
type BatchResult struct {
	Directory     string                  `json:"directory"`
	FileResults   map[string]*CheckResult `json:"file_results"`
	TotalFiles    int                     `json:"total_files"`
	PassedFiles   int                     `json:"passed_files"`
	FailedFiles   int                     `json:"failed_files"`
	TotalSamples  int                     `json:"total_samples"`
	PassedSamples int                     `json:"passed_samples"`
	FailedSamples int                     `json:"failed_samples"`
	PassRate      float64                 `json:"pass_rate"`
	ErrorCount    int                     `json:"error_count"`
	WarningCount  int                     `json:"warning_count"`
	InfoCount     int                     `json:"info_count"`
	SkippedFiles  []string                `json:"skipped_files,omitempty"`
}
