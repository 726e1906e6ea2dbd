package engine

import (
	"fmt"
	"sort"

	"github.com/knowlyr/datacheck/internal/model"
	"github.com/knowlyr/datacheck/internal/rules"
)

// maxFailedSampleRefs caps how many failing sample indices a rule statistic
// carries in reports
const maxFailedSampleRefs = 10

// Evaluate runs every enabled rule against every sample, in rule declaration
// order within each sample. A predicate error never aborts the run; the rule
// is recorded as failed for that sample with the error as its message.
func Evaluate(samples []model.Sample, schema *model.Schema, rs *rules.RuleSet) []model.RuleOutcome {
	enabled := rs.Enabled()
	outcomes := make([]model.RuleOutcome, 0, len(samples)*len(enabled))

	for i, sample := range samples {
		for _, rule := range enabled {
			passed, err := rule.Check(sample, schema)
			outcome := model.RuleOutcome{
				RuleID:      rule.ID,
				SampleIndex: i,
				Passed:      passed && err == nil,
				Severity:    rule.Severity,
			}
			if err != nil {
				outcome.Passed = false
				outcome.Message = fmt.Sprintf("check failed: %v", err)
			}
			outcomes = append(outcomes, outcome)
		}
	}
	return outcomes
}

// Aggregate folds per-(rule, sample) outcomes into the collection-level
// verdict. A sample fails when at least one error-severity rule failed on it;
// warnings and infos are counted but do not fail samples.
func Aggregate(outcomes []model.RuleOutcome, rs *rules.RuleSet, total int) *model.CheckResult {
	result := &model.CheckResult{
		Total:        total,
		RuleFailures: make(map[string]int),
		RuleResults:  make(map[string]model.RuleStat),
		Outcomes:     outcomes,
	}

	stats := make(map[string]*model.RuleStat)
	for _, rule := range rs.Enabled() {
		stats[rule.ID] = &model.RuleStat{Name: rule.Name, Severity: rule.Severity}
	}

	failedSamples := make(map[int]bool)
	for _, o := range outcomes {
		stat, known := stats[o.RuleID]
		if !known {
			stat = &model.RuleStat{Name: o.RuleID, Severity: o.Severity}
			stats[o.RuleID] = stat
		}
		if o.Passed {
			stat.Passed++
			continue
		}
		stat.Failed++
		if len(stat.FailedSamples) < maxFailedSampleRefs {
			stat.FailedSamples = append(stat.FailedSamples, o.SampleIndex)
		}
		switch o.Severity {
		case model.SeverityError:
			result.ErrorCount++
			failedSamples[o.SampleIndex] = true
		case model.SeverityWarning:
			result.WarningCount++
		case model.SeverityInfo:
			result.InfoCount++
		}
	}

	for id, stat := range stats {
		result.RuleResults[id] = *stat
		if stat.Failed > 0 {
			result.RuleFailures[id] = stat.Failed
		}
	}

	result.Failed = len(failedSamples)
	result.Passed = total - result.Failed
	for idx := range failedSamples {
		result.FailedSamples = append(result.FailedSamples, idx)
	}
	sort.Ints(result.FailedSamples)

	if total == 0 {
		// An empty collection has no violations
		result.PassRate = 1.0
	} else {
		result.PassRate = float64(result.Passed) / float64(total)
	}
	result.Rating = model.Rating(result.PassRate)
	return result
}
