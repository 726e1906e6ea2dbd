package report

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/knowlyr/datacheck/internal/model"
	"golang.org/x/net/html"
)

func sampleResult() *model.CheckResult {
	return &model.CheckResult{
		Total:        10,
		Passed:       8,
		Failed:       2,
		PassRate:     0.8,
		Rating:       model.RatingGood,
		ErrorCount:   2,
		WarningCount: 3,
		RuleFailures: map[string]int{"non_empty": 2, "pii_detection": 3},
		RuleResults: map[string]model.RuleStat{
			"non_empty":     {Name: "Non-empty fields", Severity: model.SeverityError, Passed: 8, Failed: 2, FailedSamples: []int{3, 7}},
			"pii_detection": {Name: "PII detection", Severity: model.SeverityWarning, Passed: 7, Failed: 3, FailedSamples: []int{1, 4, 5}},
		},
		FailedSamples:  []int{3, 7},
		Duplicates:     [][]int{{0, 2}},
		NearDuplicates: [][]int{{4, 5}},
		Anomalies: map[string]model.AnomalyReport{
			"score": {
				FieldType:      "number",
				Method:         "iqr",
				Bounds:         model.AnomalyBounds{Lower: -3.5, Upper: 14.5},
				OutlierIndices: []int{9},
			},
		},
		AnomalyCount: 1,
	}
}

func TestRender_Markdown(t *testing.T) {
	out, err := Render(sampleResult(), "train.jsonl", FormatMarkdown)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	for _, want := range []string{
		"# Data Quality Report: train.jsonl",
		"| Pass rate | 80.0% |",
		"| Rating | good |",
		"Non-empty fields",
		"## Exact Duplicates",
		"- samples 0, 2",
		"## Near Duplicates",
		"## Anomalies",
		"[-3.50, 14.50]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Markdown report missing %q", want)
		}
	}
}

func TestRender_JSON(t *testing.T) {
	out, err := Render(sampleResult(), "train.jsonl", FormatJSON)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("JSON report does not parse: %v", err)
	}
	if decoded["total"].(float64) != 10 {
		t.Errorf("Expected total 10, got %v", decoded["total"])
	}
	if decoded["rating"].(string) != "good" {
		t.Errorf("Expected rating good, got %v", decoded["rating"])
	}
	if _, present := decoded["rule_failures"]; !present {
		t.Error("JSON report missing rule_failures")
	}
}

func TestRender_HTML(t *testing.T) {
	out, err := Render(sampleResult(), "train.jsonl", FormatHTML)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	doc, err := html.Parse(strings.NewReader(out))
	if err != nil {
		t.Fatalf("HTML report does not parse: %v", err)
	}

	var h1 string
	tables := 0
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "h1":
				if n.FirstChild != nil {
					h1 = n.FirstChild.Data
				}
			case "table":
				tables++
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if !strings.Contains(h1, "train.jsonl") {
		t.Errorf("Expected h1 to carry the title, got %q", h1)
	}
	// Summary, rules, and anomalies tables
	if tables < 3 {
		t.Errorf("Expected at least 3 tables, got %d", tables)
	}
	if !strings.Contains(out, `class="rating-good"`) {
		t.Error("Expected rating cell with rating class")
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	if _, err := Render(sampleResult(), "x", "pdf"); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestSummary(t *testing.T) {
	got := Summary(sampleResult())
	if !strings.Contains(got, "8/10") || !strings.Contains(got, "good") {
		t.Errorf("Unexpected summary %q", got)
	}
}

func TestDiff_SelfIsZero(t *testing.T) {
	r := sampleResult()
	d := Diff(r, r)
	for _, m := range d.Metrics {
		if m.Delta != 0 {
			t.Errorf("Metric %s: expected zero delta, got %v", m.Name, m.Delta)
		}
	}
	for _, rd := range d.Rules {
		if rd.Delta != 0 {
			t.Errorf("Rule %s: expected zero delta, got %d", rd.RuleID, rd.Delta)
		}
	}
}

func TestDiff_RulesAlphabetical(t *testing.T) {
	before := sampleResult()
	after := sampleResult()
	after.RuleFailures = map[string]int{"zebra_rule": 1, "alpha_rule": 2, "non_empty": 1}

	d := Diff(before, after)
	var ids []string
	for _, r := range d.Rules {
		ids = append(ids, r.RuleID)
	}
	for i := 1; i < len(ids); i++ {
		if ids[i] < ids[i-1] {
			t.Fatalf("Rule deltas not alphabetical: %v", ids)
		}
	}
	// Rule present only in after diffs against zero
	for _, r := range d.Rules {
		if r.RuleID == "alpha_rule" && (r.Before != 0 || r.After != 2 || r.Delta != 2) {
			t.Errorf("alpha_rule delta wrong: %+v", r)
		}
		if r.RuleID == "pii_detection" && (r.Before != 3 || r.After != 0 || r.Delta != -3) {
			t.Errorf("pii_detection delta wrong: %+v", r)
		}
	}
}

func TestDiff_Improved(t *testing.T) {
	before := sampleResult()
	after := sampleResult()
	after.Passed = 10
	after.Failed = 0
	after.PassRate = 1.0

	if !Diff(before, after).Improved() {
		t.Error("Higher pass rate should report improved")
	}
	if Diff(after, before).Improved() {
		t.Error("Lower pass rate should not report improved")
	}
}

func TestRenderDiff(t *testing.T) {
	before := sampleResult()
	after := sampleResult()
	after.Passed = 9
	after.Failed = 1
	after.PassRate = 0.9

	out := RenderDiff(Diff(before, after))
	for _, want := range []string{
		"# Check Diff",
		"| pass_rate | 80.0% | 90.0% | +10.0% |",
		"| failed | 2 | 1 | -1 |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Diff report missing %q:\n%s", want, out)
		}
	}
}

func TestRenderBatch(t *testing.T) {
	batch := &model.BatchResult{
		Directory:   "data/",
		TotalFiles:  2,
		PassedFiles: 1,
		FailedFiles: 1,
		PassRate:    0.75,
		FileResults: map[string]*model.CheckResult{
			"a.jsonl": {Total: 4, PassRate: 1.0, Rating: model.RatingExcellent},
			"b.jsonl": {Total: 4, PassRate: 0.5, Rating: model.RatingFair},
		},
		SkippedFiles: []string{"broken.json"},
	}
	out := RenderBatch(batch)
	for _, want := range []string{
		"# Batch Report: data/",
		"| a.jsonl | 4 | 100.0% | excellent |",
		"| b.jsonl | 4 | 50.0% | fair |",
		"- broken.json",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Batch report missing %q", want)
		}
	}
}
