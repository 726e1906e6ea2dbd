package rules

import (
	"fmt"

	"github.com/knowlyr/datacheck/internal/model"
	"github.com/knowlyr/datacheck/internal/textcheck"
)

// Builtin returns the built-in rule catalog in its canonical order.
// Schema-driven rules pass trivially when no schema is supplied.
func Builtin() *RuleSet {
	rs := NewRuleSet("default")

	rs.mustAdd(&model.Rule{
		ID:          "required_fields",
		Name:        "Required fields",
		Description: "All schema-required fields are present",
		Kind:        model.CheckRequired,
		Severity:    model.SeverityError,
		Enabled:     true,
		Check:       checkRequiredFields,
	})

	rs.mustAdd(&model.Rule{
		ID:          "non_empty",
		Name:        "Non-empty fields",
		Description: "No field holds an empty or whitespace-only value",
		Kind:        model.CheckNonEmpty,
		Severity:    model.SeverityError,
		Enabled:     true,
		Check:       checkNonEmpty,
	})

	rs.mustAdd(&model.Rule{
		ID:          "format_valid",
		Name:        "Format",
		Description: "Field values agree with their schema-declared types",
		Kind:        model.CheckFormat,
		Severity:    model.SeverityError,
		Enabled:     true,
		Check:       checkFormat,
	})

	rs.mustAdd(&model.Rule{
		ID:          "length_bounds",
		Name:        "Length bounds",
		Description: "String lengths are within schema-declared bounds",
		Kind:        model.CheckLengthBounds,
		Severity:    model.SeverityWarning,
		Enabled:     true,
		Check:       checkLengthBounds,
	})

	rs.mustAdd(&model.Rule{
		ID:          "score_valid",
		Name:        "Score validity",
		Description: "Numeric values are within schema-declared range or enum",
		Kind:        model.CheckScoreValid,
		Severity:    model.SeverityError,
		Enabled:     true,
		Check:       checkScoreValid,
	})

	rs.mustAdd(&model.Rule{
		ID:          "language_consistency",
		Name:        "Language consistency",
		Description: "Text fields agree on a dominant script",
		Kind:        model.CheckLanguage,
		Severity:    model.SeverityInfo,
		Enabled:     true,
		Check:       checkLanguageConsistency,
	})

	rs.mustAdd(&model.Rule{
		ID:          "pii_detection",
		Name:        "PII detection",
		Description: "No email addresses, phone numbers, or ID numbers",
		Kind:        model.CheckPII,
		Severity:    model.SeverityWarning,
		Enabled:     true,
		Check:       checkPII,
	})

	rs.mustAdd(&model.Rule{
		ID:          "garbled_text",
		Name:        "Garbled text",
		Description: "No control characters or encoding artifacts",
		Kind:        model.CheckGarbled,
		Severity:    model.SeverityWarning,
		Enabled:     true,
		Check:       checkGarbled,
	})

	rs.mustAdd(&model.Rule{
		ID:          "repetitive_text",
		Name:        "Repetitive text",
		Description: "No degenerate repeated phrases",
		Kind:        model.CheckRepetitive,
		Severity:    model.SeverityWarning,
		Enabled:     true,
		Check:       checkRepetitive,
	})

	return rs
}

// checkRequiredFields fails when a schema-required field key is missing
func checkRequiredFields(sample model.Sample, schema *model.Schema) (bool, error) {
	if schema.IsEmpty() {
		return true, nil
	}
	for _, name := range schema.FieldNames() {
		spec, _ := schema.Field(name)
		if spec.Required && !sample.Has(name) {
			return false, nil
		}
	}
	return true, nil
}

// checkNonEmpty fails when any content field holds an empty value.
// Identifier and metadata fields are exempt.
func checkNonEmpty(sample model.Sample, _ *model.Schema) (bool, error) {
	for _, name := range sample.Fields() {
		if name == "id" || name == "metadata" {
			continue
		}
		if _, isStr := sample[name].(string); isStr && sample.IsEmpty(name) {
			return false, nil
		}
	}
	return true, nil
}

// checkFormat fails when a present value disagrees with its declared type
func checkFormat(sample model.Sample, schema *model.Schema) (bool, error) {
	if schema.IsEmpty() {
		return true, nil
	}
	for _, name := range sample.Fields() {
		spec, declared := schema.Field(name)
		if !declared {
			continue
		}
		if !spec.TypeMatches(sample[name]) {
			return false, nil
		}
	}
	return true, nil
}

// checkLengthBounds fails when a declared string field's length is outside
// its schema bounds
func checkLengthBounds(sample model.Sample, schema *model.Schema) (bool, error) {
	if schema.IsEmpty() {
		return true, nil
	}
	for _, name := range sample.Fields() {
		spec, declared := schema.Field(name)
		if !declared {
			continue
		}
		str, isStr := sample.String(name)
		if !isStr {
			continue
		}
		length := len([]rune(str))
		if spec.MinLength != nil && length < *spec.MinLength {
			return false, nil
		}
		if spec.MaxLength != nil && length > *spec.MaxLength {
			return false, nil
		}
	}
	return true, nil
}

// checkScoreValid fails when a numeric value is outside its declared range
// or not a member of its declared enum
func checkScoreValid(sample model.Sample, schema *model.Schema) (bool, error) {
	if schema.IsEmpty() {
		return true, nil
	}
	for _, name := range sample.Fields() {
		spec, declared := schema.Field(name)
		if !declared {
			continue
		}
		if spec.MinValue == nil && spec.MaxValue == nil && len(spec.Enum) == 0 {
			continue
		}
		v, isNum := sample.Number(name)
		if !isNum {
			continue
		}
		if spec.MinValue != nil && v < *spec.MinValue {
			return false, nil
		}
		if spec.MaxValue != nil && v > *spec.MaxValue {
			return false, nil
		}
		if len(spec.Enum) > 0 && !enumContains(spec.Enum, sample[name]) {
			return false, nil
		}
	}
	return true, nil
}

// checkLanguageConsistency fails (at info severity) when text fields use
// different dominant scripts or a single field substantially mixes scripts
func checkLanguageConsistency(sample model.Sample, _ *model.Schema) (bool, error) {
	var texts []string
	for _, name := range sample.TextFields() {
		text := sample[name].(string)
		texts = append(texts, text)
		if len([]rune(text)) > 10 && textcheck.MixedScripts(text, 0) {
			return false, nil
		}
	}
	return textcheck.ConsistentScripts(texts), nil
}

// checkPII fails when any string field contains PII
func checkPII(sample model.Sample, _ *model.Schema) (bool, error) {
	for _, name := range sample.TextFields() {
		if textcheck.HasPII(sample[name].(string)) {
			return false, nil
		}
	}
	return true, nil
}

// checkGarbled fails when any string field looks corrupted
func checkGarbled(sample model.Sample, _ *model.Schema) (bool, error) {
	for _, name := range sample.TextFields() {
		if textcheck.IsGarbled(sample[name].(string), 0) {
			return false, nil
		}
	}
	return true, nil
}

// checkRepetitive fails when any string field of meaningful length is
// dominated by a repeated phrase
func checkRepetitive(sample model.Sample, _ *model.Schema) (bool, error) {
	for _, name := range sample.TextFields() {
		text := sample[name].(string)
		if len([]rune(text)) < 30 {
			continue
		}
		if textcheck.IsRepetitive(text, 0, 0) {
			return false, nil
		}
	}
	return true, nil
}

// enumContains compares loosely so YAML integers match JSON floats
func enumContains(enum []interface{}, v interface{}) bool {
	want := fmt.Sprintf("%v", normalizeScalar(v))
	for _, e := range enum {
		if fmt.Sprintf("%v", normalizeScalar(e)) == want {
			return true
		}
	}
	return false
}

// normalizeScalar collapses integral floats to ints so "3" and 3.0 compare
// equal across JSON and YAML sources
func normalizeScalar(v interface{}) interface{} {
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return int64(f)
	}
	return v
}
