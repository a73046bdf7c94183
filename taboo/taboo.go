// Package taboo holds the hard-coded linguistic rules that veto head roles
// and head-modifier pairs regardless of any learned score.
package taboo

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Rules is the serialized form of a RuleSet.
type Rules struct {
	TabooHeads  []string `yaml:"taboo_heads"`
	NoLeftHead  []string `yaml:"no_left_head"`
	NoRightHead []string `yaml:"no_right_head"`
	TabooPairs  []string `yaml:"taboo_pairs"`
}

// RuleSet is an immutable set of tag rules. It is safe for concurrent use.
type RuleSet struct {
	heads   map[string]struct{}
	noLeft  map[string]struct{}
	noRight map[string]struct{}
	pairs   map[string]struct{}
}

// DefaultRules returns the built-in English Penn Treebank rule tables.
func DefaultRules() Rules {
	return Rules{
		TabooHeads: []string{
			"''", ",", ".", ";", "CC", "PRP$", "PRP", "``", "-RRB-", "-LRB-", "EX", "|",
		},
		NoLeftHead:  []string{"EX", "LS", "POS", "PRP$"},
		NoRightHead: []string{".", "RP"},
		TabooPairs: []string{
			"hCD<mCD", "hROOT<m,", "mIN<hJJ", "mJJ<hDT", "hNNP<mNNS", "hDT<mJJ",
			"mDT<hDT", "hDT<m.", "hDT<mNNS", "hROOT<mDT", "hNN<mDT", "hNN<mNNP",
			"hDT<mDT", "mNNP<hDT", "hDT<mNN", "hDT<mNNP", "hNNP<mDT", "hNNP<mNN",
			"mIN<hDT", "mNN<hDT", "mNNP<hIN",
		},
	}
}

// Default returns a RuleSet built from DefaultRules.
func Default() *RuleSet {
	return New(DefaultRules())
}

// Empty returns a RuleSet that vetoes nothing.
func Empty() *RuleSet {
	return New(Rules{})
}

// New builds a RuleSet from rule tables.
func New(r Rules) *RuleSet {
	return &RuleSet{
		heads:   toSet(r.TabooHeads),
		noLeft:  toSet(r.NoLeftHead),
		noRight: toSet(r.NoRightHead),
		pairs:   toSet(r.TabooPairs),
	}
}

// Load reads a YAML rule file.
func Load(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("taboo: %w", err)
	}
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("taboo: parse %s: %w", path, err)
	}
	return New(r), nil
}

// Rules returns the rule tables, each sorted.
func (rs *RuleSet) Rules() Rules {
	return Rules{
		TabooHeads:  sortedKeys(rs.heads),
		NoLeftHead:  sortedKeys(rs.noLeft),
		NoRightHead: sortedKeys(rs.noRight),
		TabooPairs:  sortedKeys(rs.pairs),
	}
}

// MarshalYAML implements yaml.Marshaler.
func (rs *RuleSet) MarshalYAML() (any, error) {
	return rs.Rules(), nil
}

// IsTabooHead reports whether a token with this tag can never be a head.
func (rs *RuleSet) IsTabooHead(tag string) bool {
	_, ok := rs.heads[tag]
	return ok
}

// IsNoLeftHead reports whether a token with this tag can never attach to a
// head on its left.
func (rs *RuleSet) IsNoLeftHead(tag string) bool {
	_, ok := rs.noLeft[tag]
	return ok
}

// IsNoRightHead reports whether a token with this tag can never attach to a
// head on its right.
func (rs *RuleSet) IsNoRightHead(tag string) bool {
	_, ok := rs.noRight[tag]
	return ok
}

// IsTabooPair reports whether the arc head→mod is vetoed by tag pair.
func (rs *RuleSet) IsTabooPair(headTag, modTag string, head, mod int) bool {
	_, ok := rs.pairs[PairKey(headTag, modTag, head, mod)]
	return ok
}

// PairKey builds the directional key of an arc in surface order:
// "h<head>" then "<m<mod>" when the modifier follows the head, and
// "m<mod>" then "<h<head>" otherwise.
func PairKey(headTag, modTag string, head, mod int) string {
	if mod > head {
		return "h" + headTag + "<m" + modTag
	}
	return "m" + modTag + "<h" + headTag
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
