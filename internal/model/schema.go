package model

import "sort"

// FieldType enumerates the value types a schema can declare
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInteger FieldType = "integer"
	TypeNumber  FieldType = "number"
	TypeBoolean FieldType = "boolean"
	TypeArray   FieldType = "array"
	TypeObject  FieldType = "object"
)

// FieldSpec describes the expected shape of one field
type FieldSpec struct {
	Type      FieldType     `json:"type" yaml:"type"`
	Required  bool          `json:"required,omitempty" yaml:"required,omitempty"`
	Nullable  bool          `json:"nullable,omitempty" yaml:"nullable,omitempty"`
	MinLength *int          `json:"min_length,omitempty" yaml:"min_length,omitempty"`
	MaxLength *int          `json:"max_length,omitempty" yaml:"max_length,omitempty"`
	AvgLength *int          `json:"avg_length,omitempty" yaml:"avg_length,omitempty"`
	MinValue  *float64      `json:"min_value,omitempty" yaml:"min_value,omitempty"`
	MaxValue  *float64      `json:"max_value,omitempty" yaml:"max_value,omitempty"`
	Enum      []interface{} `json:"enum,omitempty" yaml:"enum,omitempty"`
}

// Schema describes the expected fields of a sample collection. It is either
// supplied explicitly or produced by schema inference; a nil or empty schema
// means only generic rules apply.
type Schema struct {
	SampleCount int                  `json:"sample_count,omitempty" yaml:"sample_count,omitempty"`
	Fields      map[string]FieldSpec `json:"fields" yaml:"fields"`
}

// FieldNames returns the declared field names in sorted order
func (s *Schema) FieldNames() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.Fields))
	for k := range s.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Field returns the spec for a field name, if declared
func (s *Schema) Field(name string) (FieldSpec, bool) {
	if s == nil {
		return FieldSpec{}, false
	}
	spec, ok := s.Fields[name]
	return spec, ok
}

// IsEmpty reports whether the schema declares no fields
func (s *Schema) IsEmpty() bool {
	return s == nil || len(s.Fields) == 0
}

// TypeMatches reports whether a runtime value agrees with the declared type.
// Nil values are judged by the nullable flag, not the type.
func (f FieldSpec) TypeMatches(v interface{}) bool {
	if v == nil {
		return f.Nullable || !f.Required
	}
	switch f.Type {
	case TypeString:
		_, ok := v.(string)
		return ok
	case TypeInteger:
		switch n := v.(type) {
		case int, int64:
			return true
		case float64:
			return n == float64(int64(n))
		}
		return false
	case TypeNumber:
		switch v.(type) {
		case int, int64, float64:
			return true
		}
		return false
	case TypeBoolean:
		_, ok := v.(bool)
		return ok
	case TypeArray:
		_, ok := v.([]interface{})
		return ok
	case TypeObject:
		_, ok := v.(map[string]interface{})
		return ok
	}
	// Unknown declared type: do not fail samples over it
	return true
}
