package rules

import (
	"fmt"

	"github.com/knowlyr/datacheck/internal/model"
)

// RuleSet is an ordered, named collection of rules constructed once per run
// and passed into the engine. There is no process-wide registry; two runs
// never share rule state.
type RuleSet struct {
	Name    string
	ordered []*model.Rule
	byID    map[string]*model.Rule
}

// NewRuleSet creates an empty rule set
func NewRuleSet(name string) *RuleSet {
	return &RuleSet{
		Name: name,
		byID: make(map[string]*model.Rule),
	}
}

// Add appends a rule, keeping declaration order. Duplicate IDs are a
// configuration fault.
func (rs *RuleSet) Add(rule *model.Rule) error {
	if rule.ID == "" {
		return fmt.Errorf("rule without an id")
	}
	if _, exists := rs.byID[rule.ID]; exists {
		return fmt.Errorf("duplicate rule id %q", rule.ID)
	}
	rs.ordered = append(rs.ordered, rule)
	rs.byID[rule.ID] = rule
	return nil
}

// mustAdd is used for the built-in catalog, whose IDs are unique by
// construction.
func (rs *RuleSet) mustAdd(rule *model.Rule) {
	if err := rs.Add(rule); err != nil {
		panic(err)
	}
}

// Get returns a rule by ID
func (rs *RuleSet) Get(id string) (*model.Rule, bool) {
	r, ok := rs.byID[id]
	return r, ok
}

// SetEnabled toggles a rule by ID
func (rs *RuleSet) SetEnabled(id string, enabled bool) {
	if r, ok := rs.byID[id]; ok {
		r.Enabled = enabled
	}
}

// Enabled returns the active rules in declaration order
func (rs *RuleSet) Enabled() []*model.Rule {
	var out []*model.Rule
	for _, r := range rs.ordered {
		if r.Enabled && r.Check != nil {
			out = append(out, r)
		}
	}
	return out
}

// All returns every rule in declaration order, including disabled ones
func (rs *RuleSet) All() []*model.Rule {
	return append([]*model.Rule(nil), rs.ordered...)
}

// Len returns the number of rules in the set
func (rs *RuleSet) Len() int {
	return len(rs.ordered)
}
