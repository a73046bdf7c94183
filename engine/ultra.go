package engine

import (
	"fmt"

	"github.com/happyhackingspace/arcfilter/feature"
	"github.com/happyhackingspace/arcfilter/model"
	"github.com/happyhackingspace/arcfilter/sentence"
	"github.com/happyhackingspace/arcfilter/taboo"
)

// rootTags are the only tags whose ROOT score can veto other arcs.
var rootTags = map[string]bool{"VBD": true, "VBZ": true, "VBP": true, "MD": true}

// UltraFilter is the real-valued filter. Every arc gets a none score and an
// arc score from the pair model; the arc is dropped when the arc score or any
// applicable role score beats the none score.
type UltraFilter struct {
	linear   *model.LinearWeights
	pairs    *model.PairWeights
	rules    *taboo.RuleSet
	noneBias float32
	arcBias  float32
}

// NewUltraFilter creates a real-valued filter. The pair model must carry the
// bias feature. rules may be nil; when set, arcs vetoed by the taboo rules
// are dropped as well.
func NewUltraFilter(linear *model.LinearWeights, pairs *model.PairWeights, rules *taboo.RuleSet) (*UltraFilter, error) {
	none, arc, err := pairs.Bias()
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	return &UltraFilter{
		linear:   linear,
		pairs:    pairs,
		rules:    rules,
		noneBias: none,
		arcBias:  arc,
	}, nil
}

// ultraSentence is the linear-pass precomputation of one sentence.
type ultraSentence struct {
	n            int
	possibleRoot []bool
	scores       []model.RoleScores
	// Pair-key fragments for a head left or right of its modifier.
	headLeft  []string
	headRight []string
	rs        []restriction
}

// Apply returns the arcs surviving the score comparisons.
func (f *UltraFilter) Apply(s *sentence.Sentence) (*Arcs, error) {
	if err := checkLength(s); err != nil {
		return nil, err
	}
	u := f.precompute(s)

	arcs := newArcs(u.n)
	for mod := 1; mod < u.n; mod++ {
		modRight := "<m" + s.Tags[mod]
		modLeft := "m" + s.Tags[mod]

		if f.keep(s, u, 0, mod, "h"+sentence.RootTag+modRight) {
			arcs.add(mod, 0)
		}
		for head := 1; head < mod; head++ {
			if f.keep(s, u, head, mod, u.headLeft[head]+modRight) {
				arcs.add(mod, head)
			}
		}
		for head := mod + 1; head < u.n; head++ {
			if f.keep(s, u, head, mod, modLeft+u.headRight[head]) {
				arcs.add(mod, head)
			}
		}
	}
	return arcs, nil
}

// Format writes one field per modifier.
func (f *UltraFilter) Format(a *Arcs) string {
	return FormatPlain(a)
}

func (f *UltraFilter) precompute(s *sentence.Sentence) *ultraSentence {
	n := s.Len()
	u := &ultraSentence{
		n:            n,
		possibleRoot: make([]bool, n),
		scores:       make([]model.RoleScores, n),
		headLeft:     make([]string, n),
		headRight:    make([]string, n),
	}
	if f.rules != nil {
		u.rs = make([]restriction, n)
	}
	for i := 1; i < n; i++ {
		tag := s.Tags[i]
		u.possibleRoot[i] = rootTags[tag]
		u.headLeft[i] = "h" + tag
		u.headRight[i] = "<h" + tag
		u.scores[i] = f.linear.Scores(feature.Linear(i, s))
		if u.rs != nil {
			u.rs[i] = ruleRestriction(tag, f.rules)
		}
	}
	return u
}

// keep evaluates the arc head→mod. key is its directional pair key.
func (f *UltraFilter) keep(s *sentence.Sentence, u *ultraSentence, head, mod int, key string) bool {
	dist := mod - head
	if head > mod {
		dist = head - mod
	}
	none, arc := f.noneBias, f.arcBias
	if cn, ca, ok := f.pairs.Lookup(key); ok {
		d := float32(dist)
		none += float32(cn * d)
		arc += float32(ca * d)
	}
	if arc > none {
		return false
	}
	if head != 0 && u.scores[head][model.RoleHead] > none {
		return false
	}

	ms := &u.scores[mod]
	if head < mod {
		if ms[model.RoleNoLeft] > none || ms[model.RoleRight1] > none || ms[model.RoleRight5] > none ||
			(ms[model.RoleLeft1] > none && head != mod-1) ||
			(ms[model.RoleLeft5] > none && mod-head > 5) {
			return false
		}
	} else {
		if ms[model.RoleNoRight] > none || ms[model.RoleLeft1] > none || ms[model.RoleLeft5] > none ||
			(ms[model.RoleRight1] > none && head != mod+1) ||
			(ms[model.RoleRight5] > none && head-mod > 5) {
			return false
		}
	}

	if f.rootBetween(u, head, mod, none) {
		return false
	}
	if u.rs != nil && !admissible(u.rs, s, f.rules, head, mod) {
		return false
	}
	return true
}

// rootBetween reports whether a possible root scoring above none lies
// strictly inside the arc. For arcs from the artificial root, any other
// possible root in the sentence counts.
func (f *UltraFilter) rootBetween(u *ultraSentence, head, mod int, none float32) bool {
	lo, hi := head, mod
	if head > mod {
		lo, hi = mod, head
	}
	if head == 0 {
		hi = u.n
	}
	for i := lo + 1; i < hi; i++ {
		if i != mod && u.possibleRoot[i] && u.scores[i][model.RoleRoot] > none {
			return true
		}
	}
	return false
}
