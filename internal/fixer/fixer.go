// Package fixer applies mechanical repairs to a sample collection: dropping
// exact duplicates, dropping empty samples, trimming whitespace, and
// redacting detected PII. Fixes never touch samples they cannot repair
// mechanically; judgment calls stay with the dataset owner.
package fixer

import (
	"strings"

	"github.com/knowlyr/datacheck/internal/dedup"
	"github.com/knowlyr/datacheck/internal/model"
	"github.com/knowlyr/datacheck/internal/textcheck"
)

// Options selects which fixes to apply
type Options struct {
	RemoveDuplicates bool
	RemoveEmpty      bool
	TrimWhitespace   bool
	RedactPII        bool
}

// AllFixes enables every fix
func AllFixes() Options {
	return Options{
		RemoveDuplicates: true,
		RemoveEmpty:      true,
		TrimWhitespace:   true,
		RedactPII:        true,
	}
}

// Report records what Fix changed
type Report struct {
	Original          int   `json:"original"`
	Kept              int   `json:"kept"`
	RemovedDuplicates []int `json:"removed_duplicates,omitempty"`
	RemovedEmpty      []int `json:"removed_empty,omitempty"`
	TrimmedValues     int   `json:"trimmed_values"`
	RedactedSpans     int   `json:"redacted_spans"`
}

// Changed reports whether any fix actually modified the collection
func (r *Report) Changed() bool {
	return len(r.RemovedDuplicates) > 0 || len(r.RemovedEmpty) > 0 ||
		r.TrimmedValues > 0 || r.RedactedSpans > 0
}

// Fix applies the selected fixes and returns the repaired collection. The
// input is never mutated; removed sample indices refer to input positions.
// Within a duplicate group the first occurrence survives.
func Fix(samples []model.Sample, opts Options) ([]model.Sample, *Report) {
	report := &Report{Original: len(samples)}

	drop := make(map[int]bool)

	if opts.RemoveDuplicates {
		for _, group := range dedup.ExactGroups(samples) {
			for _, idx := range group[1:] {
				drop[idx] = true
				report.RemovedDuplicates = append(report.RemovedDuplicates, idx)
			}
		}
	}

	if opts.RemoveEmpty {
		for i, sample := range samples {
			if drop[i] {
				continue
			}
			if isEmptySample(sample) {
				drop[i] = true
				report.RemovedEmpty = append(report.RemovedEmpty, i)
			}
		}
	}

	var out []model.Sample
	for i, sample := range samples {
		if drop[i] {
			continue
		}
		fixed := make(model.Sample, len(sample))
		for k, v := range sample {
			str, isStr := v.(string)
			if !isStr {
				fixed[k] = v
				continue
			}
			if opts.TrimWhitespace {
				trimmed := strings.TrimSpace(str)
				if trimmed != str {
					report.TrimmedValues++
				}
				str = trimmed
			}
			if opts.RedactPII {
				redacted, n := textcheck.RedactPII(str)
				report.RedactedSpans += n
				str = redacted
			}
			fixed[k] = str
		}
		out = append(out, fixed)
	}

	report.Kept = len(out)
	return out, report
}

// isEmptySample reports whether every content field is empty. Identifier and
// metadata fields do not count as content.
func isEmptySample(sample model.Sample) bool {
	hasContent := false
	for _, field := range sample.Fields() {
		if field == "id" || field == "metadata" {
			continue
		}
		hasContent = true
		if !sample.IsEmpty(field) {
			return false
		}
	}
	return hasContent
}
