// Package model holds the read-only weight tables of the arc filters and
// the additive scoring over them.
package model

import "fmt"

// Alphabet maps between feature names and integer IDs.
type Alphabet struct {
	ToID  map[string]int `json:"to_id"`
	ToStr []string       `json:"to_str"`
}

// NewAlphabet creates an empty alphabet.
func NewAlphabet() *Alphabet {
	return &Alphabet{
		ToID: make(map[string]int),
	}
}

// Add adds a string to the alphabet if not already present, returns its ID.
func (a *Alphabet) Add(s string) int {
	if id, ok := a.ToID[s]; ok {
		return id
	}
	id := len(a.ToStr)
	a.ToID[s] = id
	a.ToStr = append(a.ToStr, s)
	return id
}

// Get returns the ID for a string, or -1 if not found.
func (a *Alphabet) Get(s string) int {
	if id, ok := a.ToID[s]; ok {
		return id
	}
	return -1
}

// Size returns the number of entries.
func (a *Alphabet) Size() int {
	return len(a.ToStr)
}

// Table maps feature names to fixed-width weight vectors.
// Weight layout: feature ID * Width + column.
type Table struct {
	Features *Alphabet `json:"features"`
	Width    int       `json:"width"`
	Weights  []float32 `json:"weights"`
}

// NewTable creates an empty table of the given width.
func NewTable(width int) *Table {
	return &Table{
		Features: NewAlphabet(),
		Width:    width,
	}
}

// Set stores the weights of a feature, replacing any earlier entry.
func (t *Table) Set(name string, w []float32) {
	if len(w) != t.Width {
		panic(fmt.Sprintf("model: %d weights for a width-%d table", len(w), t.Width))
	}
	id := t.Features.Add(name)
	if off := id * t.Width; off < len(t.Weights) {
		copy(t.Weights[off:off+t.Width], w)
		return
	}
	t.Weights = append(t.Weights, w...)
}

// Get returns the weights of a feature. The slice aliases the table and
// must not be modified.
func (t *Table) Get(name string) ([]float32, bool) {
	id := t.Features.Get(name)
	if id < 0 {
		return nil, false
	}
	off := id * t.Width
	return t.Weights[off : off+t.Width], true
}

// Len returns the number of features.
func (t *Table) Len() int {
	return t.Features.Size()
}

// validate checks that a deserialized table is internally consistent.
func (t *Table) validate() error {
	if t.Features == nil {
		t.Features = NewAlphabet()
	}
	if t.Features.ToID == nil {
		t.Features.ToID = make(map[string]int, len(t.Features.ToStr))
		for i, s := range t.Features.ToStr {
			t.Features.ToID[s] = i
		}
	}
	if t.Width <= 0 {
		return fmt.Errorf("invalid width %d", t.Width)
	}
	if len(t.Weights) != t.Features.Size()*t.Width {
		return fmt.Errorf("%d weights for %d features of width %d", len(t.Weights), t.Features.Size(), t.Width)
	}
	return nil
}
