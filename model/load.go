package model

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cheggaaa/pb/v3"
)

// LoadOptions controls weight loading.
type LoadOptions struct {
	// Progress receives a byte progress bar while a file is read. Nil
	// disables it.
	Progress io.Writer
}

// IsEmptyPath reports whether path names the empty model: the empty string
// or any path starting with '0'.
func IsEmptyPath(path string) bool {
	return path == "" || path[0] == '0'
}

// LoadLinear loads an eight-column linear model.
func LoadLinear(path string, opts *LoadOptions) (*LinearWeights, error) {
	t, err := LoadTable(path, LinearWidth, opts)
	if err != nil {
		return nil, err
	}
	return &LinearWeights{Table: t}, nil
}

// LoadQuad loads a one-column quadratic model.
func LoadQuad(path string, opts *LoadOptions) (*QuadWeights, error) {
	t, err := LoadTable(path, QuadWidth, opts)
	if err != nil {
		return nil, err
	}
	return &QuadWeights{Table: t}, nil
}

// LoadPair loads a two-column pair model.
func LoadPair(path string, opts *LoadOptions) (*PairWeights, error) {
	t, err := LoadTable(path, PairWidth, opts)
	if err != nil {
		return nil, err
	}
	return &PairWeights{Table: t}, nil
}

// LoadTable loads a weight table of the given width. Paths ending in .json
// are read with LoadJSON, anything else as whitespace-delimited text.
func LoadTable(path string, width int, opts *LoadOptions) (*Table, error) {
	if IsEmptyPath(path) {
		return NewTable(width), nil
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		t, err := LoadJSON(path)
		if err != nil {
			return nil, err
		}
		if t.Width != width {
			return nil, fmt.Errorf("model: %s has width %d, want %d", path, t.Width, width)
		}
		return t, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("model: weight file %s can not be opened: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if opts != nil && opts.Progress != nil {
		if fi, err := f.Stat(); err == nil {
			bar := pb.New64(fi.Size()).Set(pb.Bytes, true).SetWriter(opts.Progress).Start()
			defer bar.Finish()
			r = bar.NewProxyReader(f)
		}
	}

	t, err := ReadTable(r, width)
	if err != nil {
		return nil, fmt.Errorf("model: %s: %w", path, err)
	}
	return t, nil
}

// ReadTable parses repeated (featureName, width floats) groups separated by
// any whitespace. A later entry for the same feature replaces an earlier one.
func ReadTable(r io.Reader, width int) (*Table, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	sc.Split(bufio.ScanWords)

	t := NewTable(width)
	w := make([]float32, width)
	for sc.Scan() {
		name := sc.Text()
		for i := range width {
			if !sc.Scan() {
				if err := sc.Err(); err != nil {
					return nil, err
				}
				return nil, fmt.Errorf("feature %q: expected %d weights, got %d", name, width, i)
			}
			v, err := strconv.ParseFloat(sc.Text(), 32)
			if err != nil {
				return nil, fmt.Errorf("feature %q: %w", name, err)
			}
			w[i] = float32(v)
		}
		t.Set(name, w)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

// WriteTable writes t in the text format read by ReadTable.
func WriteTable(w io.Writer, t *Table) error {
	bw := bufio.NewWriter(w)
	for id, name := range t.Features.ToStr {
		if _, err := bw.WriteString(name); err != nil {
			return err
		}
		for _, v := range t.Weights[id*t.Width : (id+1)*t.Width] {
			bw.WriteByte(' ')
			bw.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// SaveJSON serializes the table to JSON.
func SaveJSON(t *Table, path string) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadJSON deserializes a table from JSON.
func LoadJSON(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}
	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("model: %s: %w", path, err)
	}
	if err := t.validate(); err != nil {
		return nil, fmt.Errorf("model: %s: %w", path, err)
	}
	return &t, nil
}
