// Package arcfilter prunes the candidate head→modifier arcs of tagged
// sentences before dependency parsing.
//
// It loads the rule tables and weight models once and then filters a stream
// of sentences, one per line:
//
//	f, _ := arcfilter.New(arcfilter.Config{Mode: arcfilter.ModeRule})
//	out, _ := f.FilterLine("The_DT dog_NN ran_VBD")
//	fmt.Println(out) // "1:2,3	2:0,3	3:0,1,2"
package arcfilter

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/happyhackingspace/arcfilter/engine"
	"github.com/happyhackingspace/arcfilter/model"
	"github.com/happyhackingspace/arcfilter/sentence"
	"github.com/happyhackingspace/arcfilter/taboo"
)

// Mode selects the filter.
type Mode int

const (
	// ModeRule applies the taboo rules only.
	ModeRule Mode = iota
	// ModeQuad applies the rules, boolean linear roles and the quadratic
	// arc model.
	ModeQuad
	// ModeUltra compares real-valued linear roles against the pairwise
	// none/arc model.
	ModeUltra
)

func (m Mode) String() string {
	switch m {
	case ModeRule:
		return "rule"
	case ModeQuad:
		return "quad"
	case ModeUltra:
		return "ultra"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode returns the mode named s.
func ParseMode(s string) (Mode, error) {
	for _, m := range []Mode{ModeRule, ModeQuad, ModeUltra} {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("arcfilter: unknown mode %q", s)
}

// Config holds everything needed to build a Filter.
type Config struct {
	Mode Mode

	// Weight files. A path that is empty or starts with '0' loads an empty
	// model. LinearPath is used by ModeQuad and ModeUltra, QuadPath by
	// ModeQuad, PairPath by ModeUltra.
	LinearPath string
	QuadPath   string
	PairPath   string

	// RulesPath is a YAML rule file. Empty selects the built-in tables.
	RulesPath string

	// UltraTaboo applies the taboo rules in ModeUltra as well.
	UltraTaboo bool

	// RootInInput means the first field of every line is the root token.
	RootInInput bool

	// Workers is the number of sentences filtered in parallel by Run and
	// Evaluate. Values below 1 mean 1.
	Workers int

	// Progress receives weight-load progress bars. Nil disables them.
	Progress io.Writer
}

// Filter filters sentences with a loaded engine. It is safe for concurrent
// use.
type Filter struct {
	engine  engine.Filter
	opts    sentence.ParseOptions
	workers int
}

// New loads the rule tables and weight models named by cfg.
func New(cfg Config) (*Filter, error) {
	rules, err := loadRules(cfg.RulesPath)
	if err != nil {
		return nil, fmt.Errorf("arcfilter: %w", err)
	}
	load := &model.LoadOptions{Progress: cfg.Progress}

	var e engine.Filter
	switch cfg.Mode {
	case ModeRule:
		e = engine.NewRuleFilter(rules)
	case ModeQuad:
		linear, err := loadWeights("linear", cfg.LinearPath, func() (*model.LinearWeights, error) {
			return model.LoadLinear(cfg.LinearPath, load)
		})
		if err != nil {
			return nil, err
		}
		quad, err := loadWeights("quad", cfg.QuadPath, func() (*model.QuadWeights, error) {
			return model.LoadQuad(cfg.QuadPath, load)
		})
		if err != nil {
			return nil, err
		}
		e = engine.NewQuadFilter(rules, linear, quad)
	case ModeUltra:
		linear, err := loadWeights("linear", cfg.LinearPath, func() (*model.LinearWeights, error) {
			return model.LoadLinear(cfg.LinearPath, load)
		})
		if err != nil {
			return nil, err
		}
		pairs, err := loadWeights("pair", cfg.PairPath, func() (*model.PairWeights, error) {
			return model.LoadPair(cfg.PairPath, load)
		})
		if err != nil {
			return nil, err
		}
		var ultraRules *taboo.RuleSet
		if cfg.UltraTaboo {
			ultraRules = rules
		}
		u, err := engine.NewUltraFilter(linear, pairs, ultraRules)
		if err != nil {
			return nil, fmt.Errorf("arcfilter: %w", err)
		}
		e = u
	default:
		return nil, fmt.Errorf("arcfilter: unknown mode %v", cfg.Mode)
	}

	slog.Debug("Filter ready", "mode", cfg.Mode, "workers", max(cfg.Workers, 1))
	return FromEngine(e, cfg.RootInInput, cfg.Workers), nil
}

// FromEngine wraps an already built engine filter.
func FromEngine(e engine.Filter, rootInInput bool, workers int) *Filter {
	return &Filter{
		engine:  e,
		opts:    sentence.ParseOptions{RootInInput: rootInInput},
		workers: max(workers, 1),
	}
}

// FilterLine filters one input line and returns its output line.
// Over-length sentences return an empty line and engine.ErrSentenceTooLong.
func (f *Filter) FilterLine(line string) (string, error) {
	arcs, err := f.engine.Apply(sentence.Parse(line, f.opts))
	if err != nil {
		return "", err
	}
	return f.engine.Format(arcs), nil
}

func loadRules(path string) (*taboo.RuleSet, error) {
	if path == "" {
		return taboo.Default(), nil
	}
	slog.Debug("Loading rules", "path", path)
	return taboo.Load(path)
}

// loadWeights wraps a model loader with logging and error context.
func loadWeights[T interface{ Len() int }](kind, path string, load func() (T, error)) (T, error) {
	if model.IsEmptyPath(path) {
		slog.Debug("Using empty model", "kind", kind)
	} else {
		slog.Info("Loading weights", "kind", kind, "path", path)
	}
	start := time.Now()
	w, err := load()
	if err != nil {
		var zero T
		return zero, fmt.Errorf("arcfilter: %w", err)
	}
	slog.Debug("Weights loaded", "kind", kind, "features", w.Len(), "duration", time.Since(start))
	return w, nil
}
