package model

import "fmt"

// Severity classifies how serious a rule violation is
type Severity string

const (
	SeverityError   Severity = "error"   // sample fails
	SeverityWarning Severity = "warning" // counted, sample still passes
	SeverityInfo    Severity = "info"    // advisory only
)

// Rank returns a fixed ordering so aggregation is a threshold comparison:
// error > warning > info.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	}
	return 0
}

// ParseSeverity validates a severity string from configuration
func ParseSeverity(s string) (Severity, error) {
	switch Severity(s) {
	case SeverityError, SeverityWarning, SeverityInfo:
		return Severity(s), nil
	case "":
		return SeverityWarning, nil
	}
	return "", fmt.Errorf("unknown severity %q (expected error, warning, or info)", s)
}

// CheckKind is the closed enumeration of rule predicates. New kinds are added
// here and in the rules registry; rules are never discovered by reflection.
type CheckKind string

const (
	CheckRequired     CheckKind = "required"
	CheckNonEmpty     CheckKind = "non_empty"
	CheckFormat       CheckKind = "format"
	CheckLengthBounds CheckKind = "length_bounds"
	CheckMinLength    CheckKind = "min_length"
	CheckMaxLength    CheckKind = "max_length"
	CheckScoreValid   CheckKind = "score_valid"
	CheckRegex        CheckKind = "regex"
	CheckEnum         CheckKind = "enum"
	CheckPII          CheckKind = "pii"
	CheckGarbled      CheckKind = "garbled"
	CheckRepetitive   CheckKind = "repetitive"
	CheckLanguage     CheckKind = "language_consistency"
	CheckPairDiffer   CheckKind = "pair_differ"
	CheckLLMQuality   CheckKind = "llm_quality"
)

// CheckFunc evaluates one rule against one sample. A returned error means the
// predicate hit an unexpected input shape; the engine records the rule as
// failed for that sample with a diagnostic message and keeps going.
type CheckFunc func(sample Sample, schema *Schema) (bool, error)

// Rule is an atomic quality predicate. Rules are immutable once built and are
// evaluated in the order their set declares.
type Rule struct {
	ID          string
	Name        string
	Description string
	Field       string // empty: rule inspects all relevant fields itself
	Kind        CheckKind
	Severity    Severity
	Enabled     bool
	Check       CheckFunc
}

// RuleOutcome is one (rule, sample) evaluation. Never mutated after creation.
type RuleOutcome struct {
	RuleID      string   `json:"rule_id"`
	SampleIndex int      `json:"sample_index"`
	Passed      bool     `json:"passed"`
	Severity    Severity `json:"severity"`
	Message     string   `json:"message,omitempty"`
}
