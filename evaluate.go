package arcfilter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/happyhackingspace/arcfilter/sentence"
)

// EvalResult holds how much of the arc space a filter removes and how many
// gold arcs survive it.
type EvalResult struct {
	Sentences int
	Skipped   int

	GoldArcs int // tokens carrying a gold head
	GoldKept int // gold arcs still among the candidates

	Candidates int // arcs kept by the filter
	AllArcs    int // arcs an unfiltered parser would consider

	Coverage  float64 // GoldKept / GoldArcs
	Reduction float64 // 1 - Candidates / AllArcs
}

// Evaluate filters gold-annotated input (word_tag_head tokens) and measures
// the filter against it. Over-length sentences are skipped; a token without
// a gold head is left out of the coverage counts.
func (f *Filter) Evaluate(ctx context.Context, r io.Reader) (*EvalResult, error) {
	start := time.Now()
	res := &EvalResult{}

	err := f.stream(ctx, r, func(fl filtered) error {
		res.Sentences++
		if fl.err != nil {
			res.Skipped++
			slog.Warn("Sentence exceeds maximum length", "line", fl.line, "tokens", fl.sentence.Len())
			return nil
		}
		s := fl.sentence
		if tokens := s.Len() - 1; tokens > 0 {
			res.AllArcs += tokens * tokens
		}
		res.Candidates += fl.arcs.Count()
		for mod := 1; mod < s.Len(); mod++ {
			head := s.Heads[mod]
			if head == sentence.NoHead {
				continue
			}
			res.GoldArcs++
			if fl.arcs.Contains(head, mod) {
				res.GoldKept++
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("arcfilter: %w", err)
	}

	if res.GoldArcs > 0 {
		res.Coverage = float64(res.GoldKept) / float64(res.GoldArcs)
	}
	if res.AllArcs > 0 {
		res.Reduction = 1 - float64(res.Candidates)/float64(res.AllArcs)
	}
	slog.Debug("Evaluation completed", "sentences", res.Sentences, "duration", time.Since(start))
	return res, nil
}
