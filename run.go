package arcfilter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/happyhackingspace/arcfilter/engine"
	"github.com/happyhackingspace/arcfilter/sentence"
	"golang.org/x/sync/errgroup"
)

// linesPerWorker sizes the batches handed to the worker pool.
const linesPerWorker = 64

// Stats summarizes a Run.
type Stats struct {
	Sentences int
	Skipped   int
	Duration  time.Duration
}

// filtered is the result of one input line.
type filtered struct {
	line     int
	sentence *sentence.Sentence
	arcs     *engine.Arcs
	err      error
}

// Run filters every line of r and writes one output line per input line to
// w, in input order. Over-length sentences produce a blank line and a
// warning.
func (f *Filter) Run(ctx context.Context, r io.Reader, w io.Writer) (*Stats, error) {
	start := time.Now()
	bw := bufio.NewWriter(w)
	stats := &Stats{}

	err := f.stream(ctx, r, func(res filtered) error {
		stats.Sentences++
		if res.err != nil {
			stats.Skipped++
			slog.Warn("Sentence exceeds maximum length", "line", res.line, "tokens", res.sentence.Len())
		} else if _, err := bw.WriteString(f.engine.Format(res.arcs)); err != nil {
			return err
		}
		return bw.WriteByte('\n')
	})
	if err != nil {
		return stats, fmt.Errorf("arcfilter: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return stats, fmt.Errorf("arcfilter: %w", err)
	}

	stats.Duration = time.Since(start)
	slog.Info("Filtering completed", "sentences", stats.Sentences, "skipped", stats.Skipped, "duration", stats.Duration)
	return stats, nil
}

// stream parses and filters the lines of r in parallel batches and calls
// emit for each line in input order. Over-length sentences are passed to
// emit with a non-nil err; any other error aborts the stream.
func (f *Filter) stream(ctx context.Context, r io.Reader, emit func(filtered) error) error {
	br := bufio.NewReader(r)

	batch := make([]string, 0, f.workers*linesPerWorker)
	first := 1
	flush := func() error {
		results, err := f.filterBatch(ctx, first, batch)
		if err != nil {
			return err
		}
		for _, res := range results {
			if err := emit(res); err != nil {
				return err
			}
		}
		first += len(batch)
		batch = batch[:0]
		return nil
	}

	for {
		line, err := readLine(br)
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		batch = append(batch, line)
		if len(batch) == cap(batch) {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if len(batch) > 0 {
		return flush()
	}
	return nil
}

// readLine returns the next line of br without its "\n" or "\r\n"
// terminator. Lines have no length limit. A final line without a terminator
// is returned as is; io.EOF is returned only when no input is left.
func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err == io.EOF {
		if line == "" {
			return "", io.EOF
		}
		err = nil
	}
	if err != nil {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

func (f *Filter) filterBatch(ctx context.Context, first int, lines []string) ([]filtered, error) {
	results := make([]filtered, len(lines))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)
	for i, line := range lines {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s := sentence.Parse(line, f.opts)
			arcs, err := f.engine.Apply(s)
			if err != nil && !errors.Is(err, engine.ErrSentenceTooLong) {
				return err
			}
			results[i] = filtered{line: first + i, sentence: s, arcs: arcs, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
