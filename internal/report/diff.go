package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/knowlyr/datacheck/internal/model"
)

// MetricDelta is one summary metric before and after
type MetricDelta struct {
	Name   string  `json:"name"`
	Before float64 `json:"before"`
	After  float64 `json:"after"`
	Delta  float64 `json:"delta"`
}

// RuleDelta is one rule's failure count before and after
type RuleDelta struct {
	RuleID string `json:"rule_id"`
	Before int    `json:"before"`
	After  int    `json:"after"`
	Delta  int    `json:"delta"`
}

// DiffResult compares two check runs over the same collection. Diffing a
// result against itself yields all-zero deltas.
type DiffResult struct {
	Metrics []MetricDelta `json:"metrics"`
	Rules   []RuleDelta   `json:"rules"`
}

// Improved reports whether the pass rate moved up
func (d *DiffResult) Improved() bool {
	for _, m := range d.Metrics {
		if m.Name == "pass_rate" {
			return m.Delta > 0
		}
	}
	return false
}

// Diff computes the per-metric and per-rule changes from before to after.
// Rules are listed alphabetically; a rule present in only one run diffs
// against zero.
func Diff(before, after *model.CheckResult) *DiffResult {
	d := &DiffResult{}

	metric := func(name string, b, a float64) {
		d.Metrics = append(d.Metrics, MetricDelta{Name: name, Before: b, After: a, Delta: a - b})
	}
	metric("total", float64(before.Total), float64(after.Total))
	metric("passed", float64(before.Passed), float64(after.Passed))
	metric("failed", float64(before.Failed), float64(after.Failed))
	metric("pass_rate", before.PassRate, after.PassRate)
	metric("error_count", float64(before.ErrorCount), float64(after.ErrorCount))
	metric("warning_count", float64(before.WarningCount), float64(after.WarningCount))
	metric("info_count", float64(before.InfoCount), float64(after.InfoCount))
	metric("duplicate_groups", float64(len(before.Duplicates)), float64(len(after.Duplicates)))
	metric("near_duplicate_groups", float64(len(before.NearDuplicates)), float64(len(after.NearDuplicates)))
	metric("anomaly_count", float64(before.AnomalyCount), float64(after.AnomalyCount))

	ids := make(map[string]bool)
	for id := range before.RuleFailures {
		ids[id] = true
	}
	for id := range after.RuleFailures {
		ids[id] = true
	}
	sorted := make([]string, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	sort.Strings(sorted)

	for _, id := range sorted {
		b := before.RuleFailures[id]
		a := after.RuleFailures[id]
		d.Rules = append(d.Rules, RuleDelta{RuleID: id, Before: b, After: a, Delta: a - b})
	}

	return d
}

// RenderDiff produces the markdown form of a diff
func RenderDiff(d *DiffResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Check Diff\n\n")
	fmt.Fprintf(&b, "## Metrics\n\n")
	fmt.Fprintf(&b, "| Metric | Before | After | Delta |\n|---|---|---|---|\n")
	for _, m := range d.Metrics {
		if m.Name == "pass_rate" {
			fmt.Fprintf(&b, "| %s | %.1f%% | %.1f%% | %+.1f%% |\n",
				m.Name, m.Before*100, m.After*100, m.Delta*100)
			continue
		}
		fmt.Fprintf(&b, "| %s | %.0f | %.0f | %+.0f |\n", m.Name, m.Before, m.After, m.Delta)
	}
	b.WriteString("\n")

	if len(d.Rules) > 0 {
		fmt.Fprintf(&b, "## Rule Failures\n\n")
		fmt.Fprintf(&b, "| Rule | Before | After | Delta |\n|---|---|---|---|\n")
		for _, r := range d.Rules {
			fmt.Fprintf(&b, "| %s | %d | %d | %+d |\n", r.RuleID, r.Before, r.After, r.Delta)
		}
		b.WriteString("\n")
	}

	return b.String()
}
