package model

import (
	"sort"
	"strings"

	"github.com/spf13/cast"
)

// Sample is a single record of the collection under check. Values are the
// scalars produced by the loader: string, bool, float64/int, nil, or nested
// slices/maps from JSON input. Samples are identified by their position in
// the input sequence and are never mutated after loading.
type Sample map[string]interface{}

// Has reports whether the field key is present.
func (s Sample) Has(field string) bool {
	_, ok := s[field]
	return ok
}

// IsEmpty reports whether the field value is nil, an all-whitespace string,
// or an empty container.
func (s Sample) IsEmpty(field string) bool {
	v, ok := s[field]
	if !ok || v == nil {
		return true
	}
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val) == ""
	case []interface{}:
		return len(val) == 0
	case map[string]interface{}:
		return len(val) == 0
	}
	return false
}

// String returns the field as a string. CSV-sourced samples hold every value
// as a string; JSON-sourced samples may hold other scalars, which are not
// stringified here because rules that read text only apply to text.
func (s Sample) String(field string) (string, bool) {
	v, ok := s[field]
	if !ok {
		return "", false
	}
	str, isStr := v.(string)
	return str, isStr
}

// Number returns the field coerced to float64. Numeric strings (the CSV
// case) coerce; booleans and non-numeric text do not.
func (s Sample) Number(field string) (float64, bool) {
	v, ok := s[field]
	if !ok || v == nil {
		return 0, false
	}
	if _, isBool := v.(bool); isBool {
		return 0, false
	}
	if str, isStr := v.(string); isStr {
		if strings.TrimSpace(str) == "" {
			return 0, false
		}
		f, err := cast.ToFloat64E(strings.TrimSpace(str))
		if err != nil {
			return 0, false
		}
		return f, true
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Fields returns the field names in sorted order so that iteration over a
// sample is deterministic.
func (s Sample) Fields() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// TextFields returns the names of string-valued fields in sorted order.
func (s Sample) TextFields() []string {
	var names []string
	for _, k := range s.Fields() {
		if _, ok := s[k].(string); ok {
			names = append(names, k)
		}
	}
	return names
}

// Text returns the sample's text content for similarity comparison: the
// designated field when set, otherwise all string fields joined in field
// order.
func (s Sample) Text(designated string) string {
	if designated != "" {
		str, _ := s.String(designated)
		return str
	}
	var parts []string
	for _, k := range s.TextFields() {
		parts = append(parts, s[k].(string))
	}
	return strings.Join(parts, " ")
}

// Normalized returns a copy with every string field trimmed of surrounding
// whitespace. Used for exact-duplicate grouping; case is preserved.
func (s Sample) Normalized() Sample {
	out := make(Sample, len(s))
	for k, v := range s {
		if str, ok := v.(string); ok {
			out[k] = strings.TrimSpace(str)
		} else {
			out[k] = v
		}
	}
	return out
}
