package rules

import (
	"fmt"
	"sort"

	"github.com/knowlyr/datacheck/internal/model"
)

// Presets are the named rule sets selectable with --ruleset. Each builds a
// fresh set; presets never share rule instances across runs.
var presets = map[string]func() *RuleSet{
	"default":    Builtin,
	"sft":        SFT,
	"preference": Preference,
}

// ForName returns the preset rule set with the given name
func ForName(name string) (*RuleSet, error) {
	if name == "" {
		name = "default"
	}
	build, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown ruleset %q (available: %s)", name, presetNames())
	}
	return build(), nil
}

// PresetNames lists the available preset names, sorted
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func presetNames() string {
	out := ""
	for i, name := range PresetNames() {
		if i > 0 {
			out += ", "
		}
		out += name
	}
	return out
}

// SFT extends the default catalog with instruction/response quality floors
// for supervised fine-tuning data.
func SFT() *RuleSet {
	rs := Builtin()
	rs.Name = "sft"

	rs.mustAdd(&model.Rule{
		ID:          "instruction_quality",
		Name:        "Instruction quality",
		Description: "Instructions carry at least 10 characters of content",
		Field:       "instruction",
		Kind:        model.CheckMinLength,
		Severity:    model.SeverityWarning,
		Enabled:     true,
		Check:       minLengthCheck("instruction", 10),
	})

	rs.mustAdd(&model.Rule{
		ID:          "response_quality",
		Name:        "Response quality",
		Description: "Responses carry at least 20 characters of content",
		Field:       "response",
		Kind:        model.CheckMinLength,
		Severity:    model.SeverityWarning,
		Enabled:     true,
		Check:       minLengthCheck("response", 20),
	})

	return rs
}

// Preference extends the default catalog for preference-pair data, where a
// chosen response identical to the rejected one makes the pair worthless.
func Preference() *RuleSet {
	rs := Builtin()
	rs.Name = "preference"

	rs.mustAdd(&model.Rule{
		ID:          "chosen_rejected_different",
		Name:        "Chosen differs from rejected",
		Description: "Preference pairs have distinct chosen and rejected responses",
		Kind:        model.CheckPairDiffer,
		Severity:    model.SeverityError,
		Enabled:     true,
		Check:       checkChosenRejectedDiffer,
	})

	return rs
}

func minLengthCheck(field string, min int) model.CheckFunc {
	return stringCheck(field, func(s string) bool {
		return len([]rune(s)) >= min
	})
}

func checkChosenRejectedDiffer(sample model.Sample, _ *model.Schema) (bool, error) {
	chosen, hasChosen := sample.String("chosen")
	rejected, hasRejected := sample.String("rejected")
	if !hasChosen || !hasRejected {
		return true, nil
	}
	return chosen != rejected, nil
}
