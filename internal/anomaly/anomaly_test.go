package anomaly

import (
	"math"
	"strings"
	"testing"

	"github.com/knowlyr/datacheck/internal/model"
)

func samplesFromScores(scores []float64) []model.Sample {
	samples := make([]model.Sample, len(scores))
	for i, s := range scores {
		samples[i] = model.Sample{"score": s}
	}
	return samples
}

func TestDetect_IQRFlagsSingleOutlier(t *testing.T) {
	samples := samplesFromScores([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 100})
	results := Detect(samples, DefaultOptions())

	report, ok := results["score"]
	if !ok {
		t.Fatalf("Expected anomaly report for score, got %v", results)
	}
	if len(report.OutlierIndices) != 1 || report.OutlierIndices[0] != 9 {
		t.Errorf("Expected exactly index 9 flagged, got %v", report.OutlierIndices)
	}
	if report.Method != "iqr" {
		t.Errorf("Expected iqr method, got %s", report.Method)
	}
	if report.Bounds.Lower > report.Stats.Q1 || report.Stats.Q1 > report.Stats.Q3 || report.Stats.Q3 > report.Bounds.Upper {
		t.Errorf("Bounds invariant violated: %+v", report)
	}
}

func TestDetect_IQRQuantileInterpolation(t *testing.T) {
	stats := Stats([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 100})
	if math.Abs(stats.Q1-3.25) > 1e-9 {
		t.Errorf("Expected Q1 3.25, got %f", stats.Q1)
	}
	if math.Abs(stats.Q3-7.75) > 1e-9 {
		t.Errorf("Expected Q3 7.75, got %f", stats.Q3)
	}
}

func TestDetect_ZScoreZeroStddev(t *testing.T) {
	samples := samplesFromScores([]float64{5, 5, 5, 5, 5, 5, 5, 5, 5, 5})
	opts := DefaultOptions()
	opts.Method = "zscore"
	results := Detect(samples, opts)

	if len(results) != 0 {
		t.Errorf("Expected no outliers with zero stddev, got %v", results)
	}
}

func TestDetect_ZScoreBoundsOrdered(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 200}
	stats := Stats(values)
	out, bounds := outliersZScore(values, stats, 3.0)
	if bounds.Lower > bounds.Upper {
		t.Errorf("Expected lower <= upper, got %+v", bounds)
	}
	for _, p := range out {
		if p < 0 || p >= len(values) {
			t.Errorf("Outlier position out of range: %d", p)
		}
	}
}

func TestDetect_BelowMinimumSkipped(t *testing.T) {
	samples := samplesFromScores([]float64{1, 2, 100})
	if results := Detect(samples, DefaultOptions()); len(results) != 0 {
		t.Errorf("Expected no detection below %d samples, got %v", MinSamples, results)
	}
}

func TestDetect_StringLengthSeries(t *testing.T) {
	lengths := []int{10, 12, 14, 16, 300, 13, 15, 17, 12, 14, 16, 11}
	samples := make([]model.Sample, len(lengths))
	for i, n := range lengths {
		samples[i] = model.Sample{"text": strings.Repeat("x", n)}
	}

	results := Detect(samples, DefaultOptions())
	report, ok := results["text (length)"]
	if !ok {
		t.Fatalf("Expected length report for text field, got %v", results)
	}
	if report.FieldType != "length" {
		t.Errorf("Expected length field type, got %s", report.FieldType)
	}
	if len(report.OutlierIndices) != 1 || report.OutlierIndices[0] != 4 {
		t.Errorf("Expected index 4 flagged, got %v", report.OutlierIndices)
	}
}

func TestDetect_NumericStringsFromCSV(t *testing.T) {
	// CSV loading leaves numbers as strings; uniformly numeric columns are
	// still checked as numbers
	samples := make([]model.Sample, 11)
	for i := range samples {
		samples[i] = model.Sample{"score": "3"}
	}
	samples[7] = model.Sample{"score": "950"}

	opts := DefaultOptions()
	opts.Method = "zscore"
	results := Detect(samples, opts)
	report, ok := results["score"]
	if !ok {
		t.Fatalf("Expected numeric report for score column, got %v", results)
	}
	if report.FieldType != "number" {
		t.Errorf("Expected number field type, got %s", report.FieldType)
	}
	if len(report.OutlierIndices) != 1 || report.OutlierIndices[0] != 7 {
		t.Errorf("Expected index 7 flagged, got %v", report.OutlierIndices)
	}
}

func TestDetect_MixedFieldFallsBackToLength(t *testing.T) {
	samples := make([]model.Sample, MinSamples)
	for i := range samples {
		samples[i] = model.Sample{"note": "42"}
	}
	samples[0] = model.Sample{"note": "not a number"}

	results := Detect(samples, DefaultOptions())
	if _, ok := results["note"]; ok {
		t.Error("Mixed field must not be treated as numeric")
	}
}
