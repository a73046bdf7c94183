// Package sentence holds the tagged-sentence data model read by the arc
// filters.
//
// Position 0 of every Sentence is the artificial root; real tokens occupy
// positions 1..Len()-1.
package sentence

import (
	"strconv"
	"strings"

	"github.com/happyhackingspace/arcfilter/internal/textutil"
)

// MaxSize is the largest supported sentence length, root included.
const MaxSize = 999

// Surface form and tag of the artificial root.
const (
	RootWord = "ROOT"
	RootTag  = "ROOT"
)

// NoHead marks a token without a gold head annotation.
const NoHead = -1

// Sentence is a tagged sentence. Words, Tags and Heads are parallel slices
// indexed by position.
type Sentence struct {
	Words []string
	Tags  []string
	Heads []int
}

// ParseOptions controls how input lines are split into sentences.
type ParseOptions struct {
	// RootInInput means the first field of the line is the root token,
	// instead of the root being implicit.
	RootInInput bool
}

// Token is a single word_tag element of a line.
type Token struct {
	Word string
	Tag  string
	Head int
}

// Len returns the number of positions, root included.
func (s *Sentence) Len() int {
	return len(s.Tags)
}

// Token returns the token at position i.
func (s *Sentence) Token(i int) Token {
	return Token{Word: s.Words[i], Tag: s.Tags[i], Head: s.Heads[i]}
}

// HasGold reports whether every real token carries a gold head.
func (s *Sentence) HasGold() bool {
	if s.Len() < 2 {
		return false
	}
	for _, h := range s.Heads[1:] {
		if h == NoHead {
			return false
		}
	}
	return true
}

// Parse reads one input line. Tokens are separated by single spaces; each
// token is word_tag with an optional third _head field. The line is
// normalized with textutil.NormalizeLine and words with
// textutil.NormalizeDigits before splitting into fields.
//
// A token without an underscore yields an empty tag; consecutive spaces yield
// an empty token. Neither is rejected.
func Parse(line string, opts ParseOptions) *Sentence {
	line = textutil.NormalizeLine(line)
	fields := splitFields(line)

	n := len(fields)
	if !opts.RootInInput {
		n++
	}
	s := &Sentence{
		Words: make([]string, 0, n),
		Tags:  make([]string, 0, n),
		Heads: make([]int, 0, n),
	}
	if !opts.RootInInput {
		s.append(Token{Word: RootWord, Tag: RootTag, Head: NoHead})
	}
	for _, f := range fields {
		s.append(parseToken(f))
	}
	return s
}

// FromTokens builds a sentence from real tokens, prepending the root.
func FromTokens(tokens ...Token) *Sentence {
	s := &Sentence{}
	s.append(Token{Word: RootWord, Tag: RootTag, Head: NoHead})
	for _, t := range tokens {
		s.append(t)
	}
	return s
}

func (s *Sentence) append(t Token) {
	s.Words = append(s.Words, t.Word)
	s.Tags = append(s.Tags, t.Tag)
	s.Heads = append(s.Heads, t.Head)
}

// splitFields splits on single spaces. A trailing separator does not start
// an extra empty field.
func splitFields(line string) []string {
	if line == "" {
		return nil
	}
	fields := strings.Split(line, " ")
	if fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	return fields
}

func parseToken(field string) Token {
	parts := strings.SplitN(field, "_", 4)
	t := Token{Word: textutil.NormalizeDigits(parts[0]), Head: NoHead}
	if len(parts) > 1 {
		t.Tag = parts[1]
	}
	if len(parts) > 2 {
		if h, err := strconv.Atoi(parts[2]); err == nil && h >= 0 {
			t.Head = h
		}
	}
	return t
}
