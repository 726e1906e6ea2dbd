package textcheck

import (
	"regexp"
	"strings"
)

// PII regex families. Best-effort detection: a match fails the rule, but the
// absence of a match is not a privacy guarantee.
var piiPatterns = []struct {
	kind    string
	pattern *regexp.Regexp
}{
	{"email", regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)},
	{"phone_cn", regexp.MustCompile(`\b1[3-9]\d{9}\b`)},
	{"phone_intl", regexp.MustCompile(`\+\d{1,3}[-.\s]?\d{4,14}`)},
	{"national_id", regexp.MustCompile(`\b\d{17}[\dXx]\b`)},
}

// PIIMatch is one detected span of personally identifiable information
type PIIMatch struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// FindPII returns all detected PII spans in the text. Spans are reported in
// pattern order and are not guaranteed to be exhaustive.
func FindPII(text string) []PIIMatch {
	var matches []PIIMatch
	for _, p := range piiPatterns {
		for _, m := range p.pattern.FindAllString(text, -1) {
			matches = append(matches, PIIMatch{Kind: p.kind, Text: m})
		}
	}
	return matches
}

// HasPII reports whether any PII pattern matches the text
func HasPII(text string) bool {
	for _, p := range piiPatterns {
		if p.pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// RedactPII replaces every detected PII span with a kind placeholder like
// [EMAIL]. Returns the redacted text and the number of replacements.
func RedactPII(text string) (string, int) {
	count := 0
	for _, p := range piiPatterns {
		placeholder := "[" + strings.ToUpper(p.kind) + "]"
		text = p.pattern.ReplaceAllStringFunc(text, func(string) string {
			count++
			return placeholder
		})
	}
	return text, count
}
