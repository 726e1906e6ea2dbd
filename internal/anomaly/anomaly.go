package anomaly

import (
	"math"
	"sort"

	"github.com/knowlyr/datacheck/internal/model"
)

// MinSamples is the collection size below which detection is skipped;
// quartiles over fewer points are statistically meaningless.
const MinSamples = 10

// Options configures outlier detection
type Options struct {
	Method          string  // "iqr" (default) or "zscore"
	IQRFactor       float64 // fence multiplier, default 1.5
	ZScoreThreshold float64 // default 3.0
}

// DefaultOptions returns the standard detection settings. IQR is the default
// method for robustness to skewed distributions.
func DefaultOptions() Options {
	return Options{Method: "iqr", IQRFactor: 1.5, ZScoreThreshold: 3.0}
}

// Stats computes the basic statistics of a value list
func Stats(values []float64) model.AnomalyStats {
	if len(values) == 0 {
		return model.AnomalyStats{}
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	n := float64(len(sorted))
	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	mean := sum / n

	if len(sorted) == 1 {
		return model.AnomalyStats{Mean: mean, Median: mean, Q1: mean, Q3: mean}
	}

	variance := 0.0
	for _, v := range sorted {
		variance += (v - mean) * (v - mean)
	}
	// Sample standard deviation
	std := math.Sqrt(variance / (n - 1))

	q1 := percentile(sorted, 0.25)
	q3 := percentile(sorted, 0.75)

	return model.AnomalyStats{
		Mean:   mean,
		Std:    std,
		Median: percentile(sorted, 0.5),
		Q1:     q1,
		Q3:     q3,
		IQR:    q3 - q1,
	}
}

// percentile computes a quantile with linear interpolation over a sorted list
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	k := float64(n-1) * p
	f := math.Floor(k)
	c := math.Ceil(k)
	if f == c {
		return sorted[int(k)]
	}
	return sorted[int(f)]*(c-k) + sorted[int(c)]*(k-f)
}

// outliersIQR returns positions outside the Tukey fences
func outliersIQR(values []float64, stats model.AnomalyStats, factor float64) ([]int, model.AnomalyBounds) {
	lower := stats.Q1 - factor*stats.IQR
	upper := stats.Q3 + factor*stats.IQR
	bounds := model.AnomalyBounds{Lower: lower, Upper: upper}

	if stats.IQR == 0 {
		return nil, bounds
	}
	var out []int
	for i, v := range values {
		if v < lower || v > upper {
			out = append(out, i)
		}
	}
	return out, bounds
}

// outliersZScore returns positions more than threshold standard deviations
// from the mean. A zero standard deviation yields no outliers regardless of
// threshold.
func outliersZScore(values []float64, stats model.AnomalyStats, threshold float64) ([]int, model.AnomalyBounds) {
	bounds := model.AnomalyBounds{
		Lower: stats.Mean - threshold*stats.Std,
		Upper: stats.Mean + threshold*stats.Std,
	}
	if stats.Std == 0 {
		return nil, bounds
	}
	var out []int
	for i, v := range values {
		if math.Abs(v-stats.Mean)/stats.Std > threshold {
			out = append(out, i)
		}
	}
	return out, bounds
}

// fieldSeries is one value series under detection, with the sample index
// behind each value so outliers can be reported by sample position.
type fieldSeries struct {
	fieldType string // "number" or "length"
	values    []float64
	indices   []int
}

// Detect finds statistical outliers across all auto-discovered fields of the
// collection. Fields whose present values are uniformly numeric are checked
// directly; every string field's length distribution is checked under the key
// "<field> (length)". Returns an entry only for fields with outliers.
func Detect(samples []model.Sample, opts Options) map[string]model.AnomalyReport {
	results := make(map[string]model.AnomalyReport)
	if len(samples) < MinSamples {
		return results
	}
	if opts.Method == "" {
		opts.Method = "iqr"
	}
	if opts.IQRFactor <= 0 {
		opts.IQRFactor = 1.5
	}
	if opts.ZScoreThreshold <= 0 {
		opts.ZScoreThreshold = 3.0
	}

	series := collectSeries(samples)

	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fs := series[name]
		if len(fs.values) < MinSamples {
			continue
		}

		stats := Stats(fs.values)

		var positions []int
		var bounds model.AnomalyBounds
		if opts.Method == "zscore" {
			positions, bounds = outliersZScore(fs.values, stats, opts.ZScoreThreshold)
		} else {
			positions, bounds = outliersIQR(fs.values, stats, opts.IQRFactor)
		}
		if len(positions) == 0 {
			continue
		}

		outliers := make([]int, len(positions))
		for i, p := range positions {
			outliers[i] = fs.indices[p]
		}

		results[name] = model.AnomalyReport{
			FieldType:      fs.fieldType,
			Method:         opts.Method,
			Bounds:         bounds,
			Stats:          stats,
			OutlierIndices: outliers,
		}
	}

	return results
}

// collectSeries groups field values across the collection. A field counts as
// numeric only if every present value coerces to a number (the CSV case
// included); otherwise its string values contribute a length series.
func collectSeries(samples []model.Sample) map[string]*fieldSeries {
	numericOK := make(map[string]bool)
	present := make(map[string]bool)

	for _, sample := range samples {
		for _, field := range sample.Fields() {
			if sample[field] == nil {
				continue
			}
			_, isNum := sample.Number(field)
			if !present[field] {
				present[field] = true
				numericOK[field] = isNum
			} else if !isNum {
				numericOK[field] = false
			}
		}
	}

	series := make(map[string]*fieldSeries)
	add := func(key, fieldType string, idx int, v float64) {
		fs := series[key]
		if fs == nil {
			fs = &fieldSeries{fieldType: fieldType}
			series[key] = fs
		}
		fs.values = append(fs.values, v)
		fs.indices = append(fs.indices, idx)
	}

	for i, sample := range samples {
		for _, field := range sample.Fields() {
			if sample[field] == nil {
				continue
			}
			if numericOK[field] {
				if v, ok := sample.Number(field); ok {
					add(field, "number", i, v)
				}
				continue
			}
			if str, ok := sample.String(field); ok {
				add(field+" (length)", "length", i, float64(len([]rune(str))))
			}
		}
	}

	return series
}
