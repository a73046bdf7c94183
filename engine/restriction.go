package engine

import (
	"github.com/happyhackingspace/arcfilter/model"
	"github.com/happyhackingspace/arcfilter/sentence"
	"github.com/happyhackingspace/arcfilter/taboo"
)

// restriction is the resolved per-token filter record. Index RoleHead means
// "cannot be a head"; the left/right roles restrict where the token's own
// head may lie. RoleRoot is unused here.
type restriction model.RoleFlags

// learnedRoles lists, for each combination of the no-left-head and
// no-right-head rules matching a tag, the roles taken from the linear model.
// The unrestricted NO-LEFT/NO-RIGHT roles are learned only when neither rule
// applies, and NO-LEFT is not learned when only the no-right rule applies.
var learnedRoles = [2][2][]model.Role{
	// no-left rule off
	{
		{model.RoleNoLeft, model.RoleLeft1, model.RoleLeft5, model.RoleNoRight, model.RoleRight1, model.RoleRight5},
		{model.RoleLeft1, model.RoleLeft5},
	},
	// no-left rule on
	{
		{model.RoleRight1, model.RoleRight5},
		{},
	},
}

// ruleRestriction resolves a tag against the taboo rules alone.
func ruleRestriction(tag string, rules *taboo.RuleSet) restriction {
	var r restriction
	r[model.RoleHead] = rules.IsTabooHead(tag)
	r[model.RoleNoLeft] = rules.IsNoLeftHead(tag)
	r[model.RoleNoRight] = rules.IsNoRightHead(tag)
	return r
}

// quadRestriction resolves a tag against the taboo rules and the linear
// decisions. A matching rule always wins over the model.
func quadRestriction(tag string, rules *taboo.RuleSet, d model.RoleFlags) restriction {
	r := ruleRestriction(tag, rules)
	r[model.RoleHead] = r[model.RoleHead] || d[model.RoleHead]
	for _, role := range learnedRoles[b2i(r[model.RoleNoLeft])][b2i(r[model.RoleNoRight])] {
		r[role] = d[role]
	}
	return r
}

// admits reports whether the token, as a modifier at mod, may take a head at
// head.
func (r *restriction) admits(head, mod int) bool {
	switch {
	case r[model.RoleNoLeft] && head < mod:
		return false
	case r[model.RoleNoRight] && head > mod:
		return false
	case r[model.RoleLeft1] && head != mod-1:
		return false
	case r[model.RoleRight1] && head != mod+1:
		return false
	case r[model.RoleLeft5] && (head > mod || mod-head > 5):
		return false
	case r[model.RoleRight5] && (head < mod || head-mod > 5):
		return false
	}
	return true
}

// admissible applies the self-loop, head-role, modifier-role and taboo-pair
// checks to the arc head→mod.
func admissible(rs []restriction, s *sentence.Sentence, rules *taboo.RuleSet, head, mod int) bool {
	if head == mod {
		return false
	}
	if head != 0 && rs[head][model.RoleHead] {
		return false
	}
	if !rs[mod].admits(head, mod) {
		return false
	}
	return !rules.IsTabooPair(s.Tags[head], s.Tags[mod], head, mod)
}

// rootVeto applies the root constraints of the boolean filter: no arc may
// span a root candidate, and once any token is a root candidate only root
// candidates may attach to the artificial root.
func rootVeto(roots []int, head, mod int) bool {
	isRoot := false
	for _, r := range roots {
		if (head < r && r < mod) || (mod < r && r < head) {
			return true
		}
		if r == mod {
			isRoot = true
		}
	}
	return head == 0 && len(roots) > 0 && !isRoot
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
