package model

import (
	"errors"
	"fmt"

	"github.com/happyhackingspace/arcfilter/feature"
)

// Role is a per-token filter classification.
type Role int

// The eight roles, in weight-file column order.
const (
	RoleHead Role = iota
	RoleRoot
	RoleNoLeft
	RoleLeft1
	RoleLeft5
	RoleNoRight
	RoleRight1
	RoleRight5
	NumRoles
)

var roleNames = [NumRoles]string{
	"HEAD", "ROOT", "NO-LEFT", "LEFT-1", "LEFT-5", "NO-RIGHT", "RIGHT-1", "RIGHT-5",
}

func (r Role) String() string {
	if r < 0 || r >= NumRoles {
		return fmt.Sprintf("Role(%d)", int(r))
	}
	return roleNames[r]
}

// Decision boundaries. Scores must exceed these, not zero, to count as true.
const (
	linearThreshold = 1e-6
	quadThreshold   = 1e-8
)

// Widths of the three weight file formats.
const (
	LinearWidth = int(NumRoles)
	PairWidth   = 2
	QuadWidth   = 1
)

// ErrNoBias is returned when a pair table lacks the bias feature.
var ErrNoBias = errors.New("no bias feature for the pair/none filters")

// RoleScores holds the summed linear score of each role.
type RoleScores [NumRoles]float32

// RoleFlags holds the boolean decision of each role.
type RoleFlags [NumRoles]bool

// Decisions thresholds every role score.
func (s RoleScores) Decisions() RoleFlags {
	var f RoleFlags
	for i, v := range s {
		f[i] = float64(v) > linearThreshold
	}
	return f
}

// LinearWeights scores tokens for the eight filter roles.
type LinearWeights struct {
	*Table
}

// NewLinearWeights returns an empty linear model.
func NewLinearWeights() *LinearWeights {
	return &LinearWeights{Table: NewTable(LinearWidth)}
}

// Scores sums the weight vectors of the matched features.
func (w *LinearWeights) Scores(feats []string) RoleScores {
	var s RoleScores
	for _, f := range feats {
		v, ok := w.Get(f)
		if !ok {
			continue
		}
		for i := range s {
			s[i] += v[i]
		}
	}
	return s
}

// QuadWeights scores candidate arcs in the two-stage filter.
type QuadWeights struct {
	*Table
}

// NewQuadWeights returns an empty quadratic model.
func NewQuadWeights() *QuadWeights {
	return &QuadWeights{Table: NewTable(QuadWidth)}
}

// Score sums the weights of the binary features and weight × value of the
// real features.
func (w *QuadWeights) Score(bin []string, reals []feature.Real) float32 {
	var score float32
	for _, f := range bin {
		if v, ok := w.Get(f); ok {
			score += v[0]
		}
	}
	for _, r := range reals {
		if v, ok := w.Get(r.Name); ok {
			score += float32(v[0] * r.Value)
		}
	}
	return score
}

// Accept reports whether the arc scores above the decision boundary.
func (w *QuadWeights) Accept(bin []string, reals []feature.Real) bool {
	return float64(w.Score(bin, reals)) > quadThreshold
}

// PairWeights holds the none/arc coefficient pairs of the real-valued filter.
type PairWeights struct {
	*Table
}

// NewPairWeights returns an empty pair model.
func NewPairWeights() *PairWeights {
	return &PairWeights{Table: NewTable(PairWidth)}
}

// Lookup returns the none and arc coefficients of a directional tag pair.
func (w *PairWeights) Lookup(key string) (none, arc float32, ok bool) {
	v, ok := w.Get(key)
	if !ok {
		return 0, 0, false
	}
	return v[0], v[1], true
}

// Bias returns the none and arc biases stored under feature.Bias.
func (w *PairWeights) Bias() (none, arc float32, err error) {
	none, arc, ok := w.Lookup(feature.Bias)
	if !ok {
		return 0, 0, ErrNoBias
	}
	return none, arc, nil
}
