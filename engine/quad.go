package engine

import (
	"github.com/happyhackingspace/arcfilter/feature"
	"github.com/happyhackingspace/arcfilter/model"
	"github.com/happyhackingspace/arcfilter/sentence"
	"github.com/happyhackingspace/arcfilter/taboo"
)

// QuadFilter is the boolean two-stage filter: taboo rules and linear role
// decisions prune the arcs, and the quadratic model adjudicates the rest.
type QuadFilter struct {
	rules  *taboo.RuleSet
	linear *model.LinearWeights
	quad   *model.QuadWeights
	logs   *feature.LogTable
}

// NewQuadFilter creates a two-stage filter.
func NewQuadFilter(rules *taboo.RuleSet, linear *model.LinearWeights, quad *model.QuadWeights) *QuadFilter {
	return &QuadFilter{
		rules:  rules,
		linear: linear,
		quad:   quad,
		logs:   feature.NewLogTable(),
	}
}

// Apply returns the arcs surviving both stages.
func (f *QuadFilter) Apply(s *sentence.Sentence) (*Arcs, error) {
	if err := checkLength(s); err != nil {
		return nil, err
	}
	n := s.Len()
	rs := make([]restriction, n)
	var roots []int
	for i := 1; i < n; i++ {
		d := f.linear.Scores(feature.Linear(i, s)).Decisions()
		rs[i] = quadRestriction(s.Tags[i], f.rules, d)
		if d[model.RoleRoot] {
			roots = append(roots, i)
		}
	}

	arcs := newArcs(n)
	for mod := 1; mod < n; mod++ {
		for head := range n {
			if !admissible(rs, s, f.rules, head, mod) || rootVeto(roots, head, mod) {
				continue
			}
			bin, reals := feature.Pair(head, mod, s, f.logs)
			if f.quad.Accept(bin, reals) {
				arcs.add(mod, head)
			}
		}
	}
	return arcs, nil
}

// Format writes one field per modifier.
func (f *QuadFilter) Format(a *Arcs) string {
	return FormatPlain(a)
}
