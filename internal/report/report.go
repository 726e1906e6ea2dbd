// Package report renders check results as markdown, HTML, or JSON, and
// computes diffs between two runs over the same collection.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/knowlyr/datacheck/internal/model"
)

// Formats accepted by Render
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatHTML     = "html"
)

// Render produces the report in the requested format
func Render(result *model.CheckResult, title, format string) (string, error) {
	switch format {
	case FormatJSON:
		return renderJSON(result)
	case FormatHTML:
		return renderHTML(result, title)
	case FormatMarkdown, "":
		return renderMarkdown(result, title), nil
	}
	return "", fmt.Errorf("unknown report format %q (expected markdown, json, or html)", format)
}

// Summary is the one-line verdict printed to stdout after a check
func Summary(result *model.CheckResult) string {
	return fmt.Sprintf("%d/%d passed (%.1f%%) — %s",
		result.Passed, result.Total, result.PassRate*100, result.Rating)
}

func renderJSON(result *model.CheckResult) (string, error) {
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	return string(out) + "\n", nil
}

func renderMarkdown(result *model.CheckResult, title string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Data Quality Report: %s\n\n", title)

	fmt.Fprintf(&b, "## Summary\n\n")
	fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Total samples | %d |\n", result.Total)
	fmt.Fprintf(&b, "| Passed | %d |\n", result.Passed)
	fmt.Fprintf(&b, "| Failed | %d |\n", result.Failed)
	fmt.Fprintf(&b, "| Pass rate | %.1f%% |\n", result.PassRate*100)
	fmt.Fprintf(&b, "| Rating | %s |\n", result.Rating)
	fmt.Fprintf(&b, "| Errors | %d |\n", result.ErrorCount)
	fmt.Fprintf(&b, "| Warnings | %d |\n", result.WarningCount)
	fmt.Fprintf(&b, "| Infos | %d |\n", result.InfoCount)
	if result.Sampled {
		fmt.Fprintf(&b, "| Sampled | %d of %d |\n", result.SampledCount, result.OriginalCount)
	}
	b.WriteString("\n")

	if len(result.RuleResults) > 0 {
		fmt.Fprintf(&b, "## Rules\n\n")
		fmt.Fprintf(&b, "| Rule | Severity | Passed | Failed | Failing samples |\n|---|---|---|---|---|\n")
		for _, id := range sortedRuleIDs(result.RuleResults) {
			stat := result.RuleResults[id]
			refs := ""
			if len(stat.FailedSamples) > 0 {
				refs = intList(stat.FailedSamples)
			}
			fmt.Fprintf(&b, "| %s | %s | %d | %d | %s |\n",
				stat.Name, stat.Severity, stat.Passed, stat.Failed, refs)
		}
		b.WriteString("\n")
	}

	if len(result.Duplicates) > 0 {
		fmt.Fprintf(&b, "## Exact Duplicates\n\n")
		for _, group := range result.Duplicates {
			fmt.Fprintf(&b, "- samples %s\n", intList(group))
		}
		b.WriteString("\n")
	}

	if len(result.NearDuplicates) > 0 {
		fmt.Fprintf(&b, "## Near Duplicates\n\n")
		for _, group := range result.NearDuplicates {
			fmt.Fprintf(&b, "- samples %s\n", intList(group))
		}
		b.WriteString("\n")
	}

	if len(result.Anomalies) > 0 {
		fmt.Fprintf(&b, "## Anomalies\n\n")
		fmt.Fprintf(&b, "| Field | Method | Normal range | Outliers |\n|---|---|---|---|\n")
		for _, field := range sortedAnomalyFields(result.Anomalies) {
			rep := result.Anomalies[field]
			fmt.Fprintf(&b, "| %s | %s | [%.2f, %.2f] | %s |\n",
				field, rep.Method, rep.Bounds.Lower, rep.Bounds.Upper, intList(rep.OutlierIndices))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// RenderBatch produces the markdown summary of a directory check
func RenderBatch(batch *model.BatchResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Batch Report: %s\n\n", batch.Directory)
	fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Files | %d |\n", batch.TotalFiles)
	fmt.Fprintf(&b, "| Files passed | %d |\n", batch.PassedFiles)
	fmt.Fprintf(&b, "| Files failed | %d |\n", batch.FailedFiles)
	fmt.Fprintf(&b, "| Samples | %d |\n", batch.TotalSamples)
	fmt.Fprintf(&b, "| Pass rate | %.1f%% |\n", batch.PassRate*100)
	b.WriteString("\n")

	if len(batch.FileResults) > 0 {
		fmt.Fprintf(&b, "## Files\n\n")
		fmt.Fprintf(&b, "| File | Samples | Pass rate | Rating |\n|---|---|---|---|\n")
		names := make([]string, 0, len(batch.FileResults))
		for name := range batch.FileResults {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			r := batch.FileResults[name]
			fmt.Fprintf(&b, "| %s | %d | %.1f%% | %s |\n", name, r.Total, r.PassRate*100, r.Rating)
		}
		b.WriteString("\n")
	}

	if len(batch.SkippedFiles) > 0 {
		fmt.Fprintf(&b, "## Skipped\n\n")
		for _, name := range batch.SkippedFiles {
			fmt.Fprintf(&b, "- %s\n", name)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func sortedRuleIDs(stats map[string]model.RuleStat) []string {
	ids := make([]string, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortedAnomalyFields(anomalies map[string]model.AnomalyReport) []string {
	fields := make([]string, 0, len(anomalies))
	for f := range anomalies {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func intList(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ", ")
}
