package rules

import (
	"fmt"
	"os"
	"regexp"

	"github.com/knowlyr/datacheck/internal/model"
	"github.com/knowlyr/datacheck/internal/textcheck"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// ConfigError is a fatal configuration fault. It is raised before any sample
// is evaluated and identifies the offending rule entry.
type ConfigError struct {
	Index  int    // position in the rules list, 0-based
	Field  string // target field of the offending entry
	Check  string // check kind of the offending entry
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("rule %d (field %q, check %q): %s", e.Index, e.Field, e.Check, e.Reason)
}

// ConfigRule is one rule entry of an external rule configuration
type ConfigRule struct {
	Field    string        `yaml:"field"`
	Check    string        `yaml:"check"`
	Value    interface{}   `yaml:"value,omitempty"`
	Pattern  string        `yaml:"pattern,omitempty"`
	Values   []interface{} `yaml:"values,omitempty"`
	Severity string        `yaml:"severity,omitempty"`
	Message  string        `yaml:"message,omitempty"`
	Enabled  *bool         `yaml:"enabled,omitempty"`
}

// configFile is the YAML shape of a rule configuration
type configFile struct {
	Name  string       `yaml:"name"`
	Rules []ConfigRule `yaml:"rules"`
}

// builder constructs the predicate for one configured rule entry. Returning
// an error aborts loading with a ConfigError.
type builder func(def ConfigRule) (model.CheckFunc, error)

// builders is the closed extension point mapping check kinds to predicate
// constructors. Populated at startup; unknown kinds are configuration errors,
// never per-sample faults.
var builders = map[model.CheckKind]builder{
	model.CheckRequired:     buildRequired,
	model.CheckNonEmpty:     buildNonEmpty,
	model.CheckMinLength:    buildMinLength,
	model.CheckMaxLength:    buildMaxLength,
	model.CheckLengthBounds: buildFieldLengthBounds,
	model.CheckRegex:        buildRegex,
	model.CheckEnum:         buildEnum,
	model.CheckFormat:       buildFieldFormat,
	model.CheckScoreValid:   buildFieldScoreValid,
	model.CheckPII:          buildTextRule(textcheck.HasPII),
	model.CheckGarbled:      buildTextRule(func(t string) bool { return textcheck.IsGarbled(t, 0) }),
	model.CheckRepetitive:   buildTextRule(func(t string) bool { return textcheck.IsRepetitive(t, 0, 0) }),
	model.CheckLanguage:     buildTextRule(func(t string) bool { return textcheck.MixedScripts(t, 0) }),
}

// LoadFile reads a YAML rule configuration and builds a rule set on top of
// the built-in catalog.
func LoadFile(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule config: %w", err)
	}
	return Load(data, path)
}

// Load parses a rule configuration and appends its rules, in declared order,
// to the built-in catalog. Any malformed entry fails the whole load.
func Load(data []byte, name string) (*RuleSet, error) {
	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse rule config: %w", err)
	}

	rs := Builtin()
	if cfg.Name != "" {
		rs.Name = cfg.Name
	} else {
		rs.Name = name
	}

	for i, def := range cfg.Rules {
		rule, err := buildRule(i, def)
		if err != nil {
			return nil, err
		}
		if err := rs.Add(rule); err != nil {
			return nil, &ConfigError{Index: i, Field: def.Field, Check: def.Check, Reason: err.Error()}
		}
	}
	return rs, nil
}

// buildRule validates one entry and constructs its rule
func buildRule(index int, def ConfigRule) (*model.Rule, error) {
	fail := func(reason string) error {
		return &ConfigError{Index: index, Field: def.Field, Check: def.Check, Reason: reason}
	}

	if def.Field == "" {
		return nil, fail("missing field")
	}
	kind := model.CheckKind(def.Check)
	build, known := builders[kind]
	if !known {
		return nil, fail("unknown check kind")
	}

	severity, err := model.ParseSeverity(def.Severity)
	if err != nil {
		return nil, fail(err.Error())
	}

	check, err := build(def)
	if err != nil {
		return nil, fail(err.Error())
	}

	name := def.Message
	if name == "" {
		name = fmt.Sprintf("%s %s check", def.Field, def.Check)
	}
	enabled := true
	if def.Enabled != nil {
		enabled = *def.Enabled
	}

	return &model.Rule{
		ID:          fmt.Sprintf("config_%s_%s_%d", def.Field, def.Check, index),
		Name:        name,
		Description: fmt.Sprintf("configured rule: %s %s", def.Field, def.Check),
		Field:       def.Field,
		Kind:        kind,
		Severity:    severity,
		Enabled:     enabled,
		Check:       check,
	}, nil
}

// Field-targeted predicate constructors. Except for required, every check
// skips silently when the field is absent.

func buildRequired(def ConfigRule) (model.CheckFunc, error) {
	field := def.Field
	return func(sample model.Sample, _ *model.Schema) (bool, error) {
		return sample.Has(field), nil
	}, nil
}

func buildNonEmpty(def ConfigRule) (model.CheckFunc, error) {
	field := def.Field
	return func(sample model.Sample, _ *model.Schema) (bool, error) {
		if !sample.Has(field) {
			return true, nil
		}
		return !sample.IsEmpty(field), nil
	}, nil
}

func buildMinLength(def ConfigRule) (model.CheckFunc, error) {
	min, err := lengthParam(def.Value, 1)
	if err != nil {
		return nil, err
	}
	field := def.Field
	return stringCheck(field, func(s string) bool {
		return len([]rune(s)) >= min
	}), nil
}

func buildMaxLength(def ConfigRule) (model.CheckFunc, error) {
	max, err := lengthParam(def.Value, 100000)
	if err != nil {
		return nil, err
	}
	field := def.Field
	return stringCheck(field, func(s string) bool {
		return len([]rune(s)) <= max
	}), nil
}

func buildFieldLengthBounds(def ConfigRule) (model.CheckFunc, error) {
	field := def.Field
	return func(sample model.Sample, schema *model.Schema) (bool, error) {
		if !sample.Has(field) {
			return true, nil
		}
		str, isStr := sample.String(field)
		if !isStr {
			return false, fmt.Errorf("field %q is not a string", field)
		}
		spec, declared := schema.Field(field)
		if !declared {
			return true, nil
		}
		length := len([]rune(str))
		if spec.MinLength != nil && length < *spec.MinLength {
			return false, nil
		}
		if spec.MaxLength != nil && length > *spec.MaxLength {
			return false, nil
		}
		return true, nil
	}, nil
}

func buildRegex(def ConfigRule) (model.CheckFunc, error) {
	if def.Pattern == "" {
		return nil, fmt.Errorf("missing pattern")
	}
	re, err := regexp.Compile(def.Pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %v", err)
	}
	return stringCheck(def.Field, re.MatchString), nil
}

func buildEnum(def ConfigRule) (model.CheckFunc, error) {
	if len(def.Values) == 0 {
		return nil, fmt.Errorf("missing values")
	}
	values := def.Values
	field := def.Field
	return func(sample model.Sample, _ *model.Schema) (bool, error) {
		if !sample.Has(field) {
			return true, nil
		}
		return enumContains(values, sample[field]), nil
	}, nil
}

func buildFieldFormat(def ConfigRule) (model.CheckFunc, error) {
	field := def.Field
	return func(sample model.Sample, schema *model.Schema) (bool, error) {
		if !sample.Has(field) {
			return true, nil
		}
		spec, declared := schema.Field(field)
		if !declared {
			return true, nil
		}
		return spec.TypeMatches(sample[field]), nil
	}, nil
}

func buildFieldScoreValid(def ConfigRule) (model.CheckFunc, error) {
	field := def.Field
	return func(sample model.Sample, schema *model.Schema) (bool, error) {
		if !sample.Has(field) {
			return true, nil
		}
		spec, declared := schema.Field(field)
		if !declared {
			return true, nil
		}
		v, isNum := sample.Number(field)
		if !isNum {
			return false, fmt.Errorf("field %q is not numeric", field)
		}
		if spec.MinValue != nil && v < *spec.MinValue {
			return false, nil
		}
		if spec.MaxValue != nil && v > *spec.MaxValue {
			return false, nil
		}
		if len(spec.Enum) > 0 && !enumContains(spec.Enum, sample[field]) {
			return false, nil
		}
		return true, nil
	}, nil
}

// buildTextRule adapts a text predicate (true = problem found) to a
// field-targeted check
func buildTextRule(problem func(string) bool) builder {
	return func(def ConfigRule) (model.CheckFunc, error) {
		return stringCheck(def.Field, func(s string) bool { return !problem(s) }), nil
	}
}

// stringCheck wraps a string predicate with absent-field skip and a typed
// error for non-string values
func stringCheck(field string, ok func(string) bool) model.CheckFunc {
	return func(sample model.Sample, _ *model.Schema) (bool, error) {
		if !sample.Has(field) {
			return true, nil
		}
		str, isStr := sample.String(field)
		if !isStr {
			return false, fmt.Errorf("field %q is not a string", field)
		}
		return ok(str), nil
	}
}

// lengthParam coerces a length parameter, tolerating YAML's scalar variety
func lengthParam(v interface{}, fallback int) (int, error) {
	if v == nil {
		return fallback, nil
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, fmt.Errorf("invalid length value %v", v)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative length value %d", n)
	}
	return n, nil
}
