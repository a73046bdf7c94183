// Package engine prunes the candidate head→modifier arcs of a tagged
// sentence before dependency parsing.
//
// Three filters share the same shape: precompute per-token role decisions
// in one pass, then keep, for every modifier, the heads that survive all
// restrictions.
//
//	RuleFilter   taboo rules only
//	QuadFilter   taboo rules + boolean linear roles + quadratic arc model
//	UltraFilter  real-valued linear roles compared against a pairwise none/arc model
package engine

import (
	"errors"
	"strconv"
	"strings"

	"github.com/happyhackingspace/arcfilter/sentence"
)

// ErrSentenceTooLong is returned for sentences longer than sentence.MaxSize.
var ErrSentenceTooLong = errors.New("exceeding maximum sentence size")

// Filter computes and formats the surviving arcs of a sentence.
// Implementations are read-only after construction and safe for concurrent
// use.
type Filter interface {
	Apply(s *sentence.Sentence) (*Arcs, error)
	Format(a *Arcs) string
}

// Arcs holds the surviving heads of each modifier, in discovery order.
// Index 0 (the root) is never a modifier.
type Arcs struct {
	Heads [][]int
}

func newArcs(n int) *Arcs {
	return &Arcs{Heads: make([][]int, n)}
}

func (a *Arcs) add(mod, head int) {
	a.Heads[mod] = append(a.Heads[mod], head)
}

// Len returns the number of positions, root included.
func (a *Arcs) Len() int {
	return len(a.Heads)
}

// Candidates returns the surviving heads of mod.
func (a *Arcs) Candidates(mod int) []int {
	return a.Heads[mod]
}

// Contains reports whether the arc head→mod survived.
func (a *Arcs) Contains(head, mod int) bool {
	if mod <= 0 || mod >= len(a.Heads) {
		return false
	}
	for _, h := range a.Heads[mod] {
		if h == head {
			return true
		}
	}
	return false
}

// Count returns the total number of surviving arcs.
func (a *Arcs) Count() int {
	total := 0
	for _, hs := range a.Heads {
		total += len(hs)
	}
	return total
}

// FormatPlain writes one tab-separated field per modifier, each a
// comma-joined head list. Modifiers without heads produce empty fields.
func FormatPlain(a *Arcs) string {
	if a == nil || a.Len() < 2 {
		return ""
	}
	var b strings.Builder
	for mod := 1; mod < a.Len(); mod++ {
		if mod > 1 {
			b.WriteByte('\t')
		}
		writeHeads(&b, a.Heads[mod])
	}
	return b.String()
}

// FormatIndexed writes "mod:h1,h2,..." for every modifier with at least one
// head, tab-separated. Modifiers without heads are omitted.
func FormatIndexed(a *Arcs) string {
	if a == nil {
		return ""
	}
	var b strings.Builder
	for mod := 1; mod < a.Len(); mod++ {
		if len(a.Heads[mod]) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\t')
		}
		b.WriteString(strconv.Itoa(mod))
		b.WriteByte(':')
		writeHeads(&b, a.Heads[mod])
	}
	return b.String()
}

func writeHeads(b *strings.Builder, heads []int) {
	for i, h := range heads {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(h))
	}
}

func checkLength(s *sentence.Sentence) error {
	if s.Len() > sentence.MaxSize {
		return ErrSentenceTooLong
	}
	return nil
}
