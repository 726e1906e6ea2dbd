package rules

import (
	"errors"
	"testing"

	"github.com/knowlyr/datacheck/internal/model"
)

func intPtr(v int) *int          { return &v }
func floatPtr(v float64) *float64 { return &v }

func scoreSchema() *model.Schema {
	return &model.Schema{
		SampleCount: 3,
		Fields: map[string]model.FieldSpec{
			"score": {
				Type:     model.TypeInteger,
				Required: true,
				MinValue: floatPtr(1),
				MaxValue: floatPtr(5),
			},
		},
	}
}

func runRule(t *testing.T, rs *RuleSet, id string, sample model.Sample, schema *model.Schema) bool {
	t.Helper()
	rule, ok := rs.Get(id)
	if !ok {
		t.Fatalf("Rule %q not in set", id)
	}
	passed, err := rule.Check(sample, schema)
	if err != nil {
		t.Fatalf("Rule %q returned error: %v", id, err)
	}
	return passed
}

func TestBuiltin_OrderAndIDs(t *testing.T) {
	rs := Builtin()
	want := []string{
		"required_fields", "non_empty", "format_valid", "length_bounds",
		"score_valid", "language_consistency", "pii_detection",
		"garbled_text", "repetitive_text",
	}
	all := rs.All()
	if len(all) != len(want) {
		t.Fatalf("Expected %d built-in rules, got %d", len(want), len(all))
	}
	for i, rule := range all {
		if rule.ID != want[i] {
			t.Errorf("Rule %d: expected id %q, got %q", i, want[i], rule.ID)
		}
		if !rule.Enabled {
			t.Errorf("Rule %q should be enabled by default", rule.ID)
		}
	}
}

func TestRuleSet_DuplicateID(t *testing.T) {
	rs := NewRuleSet("test")
	rule := &model.Rule{ID: "dup", Check: func(model.Sample, *model.Schema) (bool, error) { return true, nil }}
	if err := rs.Add(rule); err != nil {
		t.Fatalf("First add failed: %v", err)
	}
	if err := rs.Add(rule); err == nil {
		t.Error("Expected error on duplicate rule id")
	}
}

func TestRuleSet_SetEnabled(t *testing.T) {
	rs := Builtin()
	rs.SetEnabled("pii_detection", false)
	for _, r := range rs.Enabled() {
		if r.ID == "pii_detection" {
			t.Error("Disabled rule still returned by Enabled()")
		}
	}
}

func TestRequiredFields(t *testing.T) {
	rs := Builtin()
	schema := scoreSchema()

	if !runRule(t, rs, "required_fields", model.Sample{"score": float64(3)}, schema) {
		t.Error("Sample with required field should pass")
	}
	if runRule(t, rs, "required_fields", model.Sample{"other": "x"}, schema) {
		t.Error("Sample missing required field should fail")
	}
	// No schema: trivially passes
	if !runRule(t, rs, "required_fields", model.Sample{}, &model.Schema{}) {
		t.Error("Empty schema should make required_fields pass")
	}
}

func TestNonEmpty_SkipsIdentifierFields(t *testing.T) {
	rs := Builtin()
	sample := model.Sample{"id": "", "metadata": "", "text": "content"}
	if !runRule(t, rs, "non_empty", sample, &model.Schema{}) {
		t.Error("Empty id/metadata fields must be exempt")
	}
	sample = model.Sample{"text": "   "}
	if runRule(t, rs, "non_empty", sample, &model.Schema{}) {
		t.Error("Whitespace-only content field should fail")
	}
}

func TestScoreValid_RangeAndEnum(t *testing.T) {
	rs := Builtin()
	schema := scoreSchema()

	if !runRule(t, rs, "score_valid", model.Sample{"score": float64(3)}, schema) {
		t.Error("In-range score should pass")
	}
	if runRule(t, rs, "score_valid", model.Sample{"score": float64(99)}, schema) {
		t.Error("Out-of-range score should fail")
	}

	enumSchema := &model.Schema{
		Fields: map[string]model.FieldSpec{
			"label": {Type: model.TypeInteger, Enum: []interface{}{1, 2, 3}},
		},
	}
	// JSON decodes 2 as float64; the YAML enum holds int. Loose equality
	// must bridge the two.
	if !runRule(t, rs, "score_valid", model.Sample{"label": float64(2)}, enumSchema) {
		t.Error("Enum member should pass across numeric representations")
	}
	if runRule(t, rs, "score_valid", model.Sample{"label": float64(7)}, enumSchema) {
		t.Error("Non-member should fail the enum check")
	}
}

func TestFormatValid(t *testing.T) {
	rs := Builtin()
	schema := scoreSchema()
	if runRule(t, rs, "format_valid", model.Sample{"score": "three"}, schema) {
		t.Error("String in an integer field should fail format check")
	}
	if !runRule(t, rs, "format_valid", model.Sample{"score": float64(4)}, schema) {
		t.Error("Integral float in an integer field should pass")
	}
}

func TestLengthBounds(t *testing.T) {
	rs := Builtin()
	schema := &model.Schema{
		Fields: map[string]model.FieldSpec{
			"text": {Type: model.TypeString, MinLength: intPtr(5), MaxLength: intPtr(10)},
		},
	}
	if runRule(t, rs, "length_bounds", model.Sample{"text": "hi"}, schema) {
		t.Error("Too-short string should fail")
	}
	if !runRule(t, rs, "length_bounds", model.Sample{"text": "just right"}, schema) {
		t.Error("In-bounds string should pass")
	}
}

func TestLoad_ConfiguredRules(t *testing.T) {
	config := []byte(`
name: custom
rules:
  - field: instruction
    check: min_length
    value: 10
    severity: warning
  - field: category
    check: enum
    values: [qa, chat, code]
    severity: error
  - field: email
    check: regex
    pattern: "^[^@]+@[^@]+$"
`)
	rs, err := Load(config, "custom.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if rs.Name != "custom" {
		t.Errorf("Expected rule set name %q, got %q", "custom", rs.Name)
	}
	if rs.Len() != Builtin().Len()+3 {
		t.Fatalf("Expected builtin + 3 configured rules, got %d", rs.Len())
	}

	if !runRule(t, rs, "config_instruction_min_length_0",
		model.Sample{"instruction": "write a long poem"}, &model.Schema{}) {
		t.Error("Long enough instruction should pass")
	}
	if runRule(t, rs, "config_instruction_min_length_0",
		model.Sample{"instruction": "short"}, &model.Schema{}) {
		t.Error("Short instruction should fail min_length")
	}
	if !runRule(t, rs, "config_instruction_min_length_0",
		model.Sample{"other": "field absent"}, &model.Schema{}) {
		t.Error("Absent field must skip, not fail")
	}

	if runRule(t, rs, "config_category_enum_1",
		model.Sample{"category": "poetry"}, &model.Schema{}) {
		t.Error("Value outside the enum should fail")
	}
	if !runRule(t, rs, "config_email_regex_2",
		model.Sample{"email": "user@example.com"}, &model.Schema{}) {
		t.Error("Matching value should pass regex rule")
	}
}

func TestLoad_UnknownCheckKind(t *testing.T) {
	config := []byte(`
rules:
  - field: text
    check: sentiment
`)
	_, err := Load(config, "bad.yaml")
	if err == nil {
		t.Fatal("Expected configuration error for unknown check kind")
	}
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected *ConfigError, got %T: %v", err, err)
	}
	if cfgErr.Index != 0 || cfgErr.Field != "text" || cfgErr.Check != "sentiment" {
		t.Errorf("ConfigError should identify the offending entry, got %+v", cfgErr)
	}
}

func TestLoad_InvalidRegex(t *testing.T) {
	config := []byte(`
rules:
  - field: text
    check: regex
    pattern: "([unclosed"
`)
	_, err := Load(config, "bad.yaml")
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Expected *ConfigError for invalid pattern, got %v", err)
	}
}

func TestLoad_InvalidSeverity(t *testing.T) {
	config := []byte(`
rules:
  - field: text
    check: non_empty
    severity: catastrophic
`)
	if _, err := Load(config, "bad.yaml"); err == nil {
		t.Fatal("Expected error for unknown severity")
	}
}

func TestLoad_DisabledRule(t *testing.T) {
	config := []byte(`
rules:
  - field: text
    check: non_empty
    enabled: false
`)
	rs, err := Load(config, "cfg.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	for _, r := range rs.Enabled() {
		if r.ID == "config_text_non_empty_0" {
			t.Error("Disabled configured rule must not be active")
		}
	}
}

func TestForName(t *testing.T) {
	for _, name := range []string{"default", "sft", "preference"} {
		rs, err := ForName(name)
		if err != nil {
			t.Errorf("ForName(%q) failed: %v", name, err)
			continue
		}
		if rs.Len() < Builtin().Len() {
			t.Errorf("Preset %q smaller than the built-in catalog", name)
		}
	}
	if _, err := ForName("nonexistent"); err == nil {
		t.Error("Expected error for unknown preset")
	}
	if rs, err := ForName(""); err != nil || rs.Name != "default" {
		t.Errorf("Empty name should resolve to default, got %v, %v", rs, err)
	}
}

func TestSFT_QualityFloors(t *testing.T) {
	rs := SFT()

	short := model.Sample{"instruction": "hi", "response": "this response is long enough to pass"}
	if runRule(t, rs, "instruction_quality", short, &model.Schema{}) {
		t.Error("Two-character instruction should fail the quality floor")
	}
	if !runRule(t, rs, "response_quality", short, &model.Schema{}) {
		t.Error("Long response should pass")
	}
	if runRule(t, rs, "response_quality", model.Sample{"response": "too short"}, &model.Schema{}) {
		t.Error("Nine-character response should fail the 20-character floor")
	}
}

func TestPreference_ChosenRejectedDiffer(t *testing.T) {
	rs := Preference()

	same := model.Sample{"chosen": "identical answer", "rejected": "identical answer"}
	if runRule(t, rs, "chosen_rejected_different", same, &model.Schema{}) {
		t.Error("Identical chosen/rejected pair should fail")
	}
	diff := model.Sample{"chosen": "good answer", "rejected": "bad answer"}
	if !runRule(t, rs, "chosen_rejected_different", diff, &model.Schema{}) {
		t.Error("Distinct pair should pass")
	}
	// Missing either side: rule does not apply
	if !runRule(t, rs, "chosen_rejected_different", model.Sample{"chosen": "only one"}, &model.Schema{}) {
		t.Error("Sample without both fields should pass")
	}
}
