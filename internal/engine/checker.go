package engine

import (
	"fmt"
	"io"

	"github.com/knowlyr/datacheck/internal/anomaly"
	"github.com/knowlyr/datacheck/internal/dedup"
	"github.com/knowlyr/datacheck/internal/model"
	"github.com/knowlyr/datacheck/internal/rules"
)

// Checker runs the full quality pass over one sample collection: rule
// evaluation, duplicate detection, and anomaly detection, folded into a
// single immutable result.
type Checker struct {
	Rules   *rules.RuleSet
	Dedup   dedup.Options
	Anomaly anomaly.Options

	// Verbose progress goes here; nil silences it
	Progress io.Writer
}

// New builds a checker from configuration. The rule set is resolved
// separately (preset name or rule file) and injected by the caller.
func New(rs *rules.RuleSet, cfg *model.Config) *Checker {
	c := &Checker{
		Rules:   rs,
		Dedup:   dedup.DefaultOptions(),
		Anomaly: anomaly.DefaultOptions(),
	}
	if cfg != nil {
		if cfg.Dedup.NearThreshold > 0 {
			c.Dedup.Threshold = cfg.Dedup.NearThreshold
		}
		if cfg.Dedup.NGramSize > 0 {
			c.Dedup.NGramSize = cfg.Dedup.NGramSize
		}
		c.Dedup.TextField = cfg.Dedup.TextField
		if cfg.Anomaly.Method != "" {
			c.Anomaly.Method = cfg.Anomaly.Method
		}
		if cfg.Anomaly.IQRFactor > 0 {
			c.Anomaly.IQRFactor = cfg.Anomaly.IQRFactor
		}
		if cfg.Anomaly.ZScoreThreshold > 0 {
			c.Anomaly.ZScoreThreshold = cfg.Anomaly.ZScoreThreshold
		}
	}
	return c
}

// Check evaluates the collection and returns its aggregate result. An empty
// collection yields a passing result with zero totals.
func (c *Checker) Check(samples []model.Sample, schema *model.Schema) *model.CheckResult {
	c.progress("evaluating %d samples against %d rules", len(samples), len(c.Rules.Enabled()))

	outcomes := Evaluate(samples, schema, c.Rules)
	result := Aggregate(outcomes, c.Rules, len(samples))

	result.Duplicates = dedup.ExactGroups(samples)
	c.progress("exact duplicate groups: %d", len(result.Duplicates))

	result.NearDuplicates = dedup.NearGroups(samples, c.Dedup)
	c.progress("near duplicate groups: %d", len(result.NearDuplicates))

	result.Anomalies = anomaly.Detect(samples, c.Anomaly)
	for _, report := range result.Anomalies {
		result.AnomalyCount += len(report.OutlierIndices)
	}
	c.progress("anomalous values: %d across %d fields", result.AnomalyCount, len(result.Anomalies))

	return result
}

func (c *Checker) progress(format string, args ...interface{}) {
	if c.Progress != nil {
		fmt.Fprintf(c.Progress, format+"\n", args...)
	}
}
