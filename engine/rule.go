package engine

import (
	"github.com/happyhackingspace/arcfilter/sentence"
	"github.com/happyhackingspace/arcfilter/taboo"
)

// RuleFilter keeps every arc not vetoed by the taboo rules.
type RuleFilter struct {
	rules *taboo.RuleSet
}

// NewRuleFilter creates a rules-only filter.
func NewRuleFilter(rules *taboo.RuleSet) *RuleFilter {
	return &RuleFilter{rules: rules}
}

// Apply returns the arcs surviving the taboo rules.
func (f *RuleFilter) Apply(s *sentence.Sentence) (*Arcs, error) {
	if err := checkLength(s); err != nil {
		return nil, err
	}
	n := s.Len()
	rs := make([]restriction, n)
	for i := 1; i < n; i++ {
		rs[i] = ruleRestriction(s.Tags[i], f.rules)
	}

	arcs := newArcs(n)
	for mod := 1; mod < n; mod++ {
		for head := range n {
			if admissible(rs, s, f.rules, head, mod) {
				arcs.add(mod, head)
			}
		}
	}
	return arcs, nil
}

// Format writes the indexed form: only modifiers with heads, each prefixed
// with its position.
func (f *RuleFilter) Format(a *Arcs) string {
	return FormatIndexed(a)
}
