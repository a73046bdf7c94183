// Package feature builds the sparse string features scored by the arc
// filter models.
//
// Feature names are the join key into externally trained weight files, so
// every string built here must stay byte-for-byte stable.
package feature

import (
	"sort"
	"strconv"

	"github.com/happyhackingspace/arcfilter/internal/textutil"
	"github.com/happyhackingspace/arcfilter/sentence"
)

// Bias is the constant feature appended to every feature list.
const Bias = "bias"

// neighborWindow is how many tags on each side of a token are included as
// neighbour tag features.
const neighborWindow = 5

// outside stands in for a word or tag beyond the sentence edges (or the root).
const outside = "~"

// Linear builds the unary features of the token at pos.
func Linear(pos int, s *sentence.Sentence) []string {
	n := s.Len()
	word := s.Words[pos]
	tag := s.Tags[pos]
	leftWord, leftTag := neighbor(s, pos-1)
	rightWord, rightTag := neighbor(s, pos+1)
	_, leftTag2 := neighbor(s, pos-2)
	_, rightTag2 := neighbor(s, pos+2)

	prefix, suffix := textutil.Affixes(word)
	shape := textutil.WordShape(word)

	feats := make([]string, 0, 128)

	if prefix != "" {
		p := "{" + prefix
		feats = append(feats, p, p+"^h"+tag, p+"^>"+suffix, p+"^#"+shape)
	}
	if suffix != "" {
		sf := "}" + suffix
		feats = append(feats, sf, sf+"^h"+tag, sf+"^#"+shape)
	}
	feats = append(feats,
		"#"+shape, "#"+shape+"^h"+tag,
		"H"+word, "H"+word+"^t"+tag,
		"h"+tag,
	)

	conjoin := [...]string{
		"H" + word,
		"h" + tag,
		"<" + prefix,
		">" + suffix,
		"#" + shape,
	}

	p := strconv.Itoa(pos)
	reverse := n - pos
	atomic := []string{
		"P" + p,
		"P" + p + "^S" + strconv.Itoa(n),
		"V" + strconv.Itoa(reverse),
		"v" + BinDistance(reverse),
	}
	atomic = append(atomic, neighborTags(pos, s)...)
	atomic = append(atomic,
		"G"+leftWord,
		"I"+rightWord,
		"h"+tag+".g"+leftTag,
		"h"+tag+".i"+rightTag,
		"g"+leftTag+".i"+rightTag,
		"f"+leftTag2+".g"+leftTag,
		"i"+rightTag+".j"+rightTag2,
	)

	for _, a := range atomic {
		feats = append(feats, a)
		for _, c := range conjoin {
			feats = append(feats, a+c)
		}
	}

	return append(feats, Bias)
}

// neighborTags returns the distinct tag and tag+distance features of the
// tokens within neighborWindow of pos, sorted.
func neighborTags(pos int, s *sentence.Sentence) []string {
	n := s.Len()
	set := make(map[string]struct{}, 4*neighborWindow)

	start := max(pos-neighborWindow, 1)
	for i := start; i < pos; i++ {
		f := "L" + s.Tags[i]
		set[f] = struct{}{}
		set[f+"."+strconv.Itoa(pos-i)] = struct{}{}
	}
	end := min(pos+neighborWindow+1, n)
	for i := pos + 1; i < end; i++ {
		f := "R" + s.Tags[i]
		set[f] = struct{}{}
		set[f+"."+strconv.Itoa(i-pos)] = struct{}{}
	}

	out := make([]string, 0, len(set))
	for f := range set {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// neighbor returns the word and tag at i, or the outside marker when i is
// the root or past either end.
func neighbor(s *sentence.Sentence, i int) (word, tag string) {
	if i > 0 && i < s.Len() {
		return s.Words[i], s.Tags[i]
	}
	return outside, outside
}

// BinDistance quantizes a signed distance: exact below 15, truncated to an
// even value below 25, and saturated beyond.
func BinDistance(d int) string {
	switch {
	case d > -15 && d < 15:
		return strconv.Itoa(d)
	case d > -25 && d < 25:
		return strconv.Itoa(d / 2 * 2)
	case d >= 25:
		return ">25"
	default:
		return "<-25"
	}
}
