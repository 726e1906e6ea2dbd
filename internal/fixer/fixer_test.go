package fixer

import (
	"fmt"
	"testing"

	"github.com/knowlyr/datacheck/internal/model"
)

func TestFix_RemovesDuplicatesKeepsFirst(t *testing.T) {
	samples := []model.Sample{
		{"text": "unique one"},
		{"text": "repeated"},
		{"text": "repeated"},
		{"text": "unique two"},
	}
	out, report := Fix(samples, Options{RemoveDuplicates: true})

	if len(out) != 3 {
		t.Fatalf("Expected 3 samples after dedup, got %d", len(out))
	}
	if fmt.Sprint(report.RemovedDuplicates) != "[2]" {
		t.Errorf("Expected removed index [2], got %v", report.RemovedDuplicates)
	}
	if got, _ := out[1].String("text"); got != "repeated" {
		t.Errorf("First occurrence must survive, got %q", got)
	}
}

func TestFix_RemovesEmptySamples(t *testing.T) {
	samples := []model.Sample{
		{"id": "a", "text": "content"},
		{"id": "b", "text": "   "},
		{"id": "c", "text": ""},
	}
	out, report := Fix(samples, Options{RemoveEmpty: true})

	if len(out) != 1 {
		t.Fatalf("Expected 1 sample, got %d", len(out))
	}
	if fmt.Sprint(report.RemovedEmpty) != "[1 2]" {
		t.Errorf("Expected removed [1 2], got %v", report.RemovedEmpty)
	}
}

func TestFix_TrimsWhitespace(t *testing.T) {
	samples := []model.Sample{
		{"text": "  padded  ", "count": float64(3)},
	}
	out, report := Fix(samples, Options{TrimWhitespace: true})

	if got, _ := out[0].String("text"); got != "padded" {
		t.Errorf("Expected trimmed text, got %q", got)
	}
	if report.TrimmedValues != 1 {
		t.Errorf("Expected 1 trimmed value, got %d", report.TrimmedValues)
	}
	// Non-string values pass through unchanged
	if out[0]["count"] != float64(3) {
		t.Errorf("Non-string value changed: %v", out[0]["count"])
	}
}

func TestFix_RedactsPII(t *testing.T) {
	samples := []model.Sample{
		{"text": "reach me at alice@example.com today"},
	}
	out, report := Fix(samples, Options{RedactPII: true})

	got, _ := out[0].String("text")
	if got != "reach me at [EMAIL] today" {
		t.Errorf("Expected redacted text, got %q", got)
	}
	if report.RedactedSpans != 1 {
		t.Errorf("Expected 1 redacted span, got %d", report.RedactedSpans)
	}
}

func TestFix_InputNotMutated(t *testing.T) {
	samples := []model.Sample{
		{"text": "  padded  "},
	}
	Fix(samples, AllFixes())
	if got, _ := samples[0].String("text"); got != "  padded  " {
		t.Errorf("Fix must not mutate its input, got %q", got)
	}
}

func TestFix_NothingToFix(t *testing.T) {
	samples := []model.Sample{
		{"text": "clean content"},
		{"text": "more clean content"},
	}
	out, report := Fix(samples, AllFixes())

	if len(out) != 2 {
		t.Fatalf("Expected 2 samples, got %d", len(out))
	}
	if report.Changed() {
		t.Errorf("Clean collection should report no changes: %+v", report)
	}
	if report.Original != 2 || report.Kept != 2 {
		t.Errorf("Expected 2/2 counts, got %d/%d", report.Original, report.Kept)
	}
}
