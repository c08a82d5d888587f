// Package recorder accumulates per-thread and global named fields from a
// benchmark run and appends them as a CSV row, enforcing spec.md §7's
// "exact header match or fatal" persistence rule.
//
// Grounded on cpp_harness/Recorder.{hpp,cpp} in the original source: each
// field has a reduction strategy across threads (sum, standard deviation,
// or string concatenation) applied before the row is written.
package recorder

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joeycumines/go-ofdeque/internal/errs"
	"github.com/joeycumines/go-ofdeque/internal/logx"
)

// Reducer combines one named field's per-thread values into the single
// value written to its CSV column.
type Reducer int

const (
	// SumInts adds every thread's value.
	SumInts Reducer = iota
	// StdDevInts reports the population standard deviation across threads.
	StdDevInts
	// Concat joins every thread's string representation with ';'.
	Concat
)

// Field is one named, per-thread column definition.
type Field struct {
	Name    string
	Reducer Reducer
	Values  []int64
}

func (f Field) reduce() string {
	switch f.Reducer {
	case SumInts:
		var sum int64
		for _, v := range f.Values {
			sum += v
		}
		return strconv.FormatInt(sum, 10)
	case StdDevInts:
		return strconv.FormatFloat(stdDev(f.Values), 'f', 4, 64)
	case Concat:
		parts := make([]string, len(f.Values))
		for i, v := range f.Values {
			parts[i] = strconv.FormatInt(v, 10)
		}
		return strings.Join(parts, ";")
	default:
		return ""
	}
}

func stdDev(vals []int64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var mean float64
	for _, v := range vals {
		mean += float64(v)
	}
	mean /= float64(len(vals))

	var variance float64
	for _, v := range vals {
		d := float64(v) - mean
		variance += d * d
	}
	variance /= float64(len(vals))
	return math.Sqrt(variance)
}

// Row is one benchmark run's global fields plus its per-thread Fields.
type Row struct {
	Global map[string]string
	Fields []Field
}

func (r Row) header() []string {
	names := make([]string, 0, len(r.Global)+len(r.Fields))
	for k := range r.Global {
		names = append(names, k)
	}
	sort.Strings(names[:len(r.Global)])
	for _, f := range r.Fields {
		names = append(names, f.Name)
	}
	return names
}

func (r Row) values(header []string) []string {
	out := make([]string, len(header))
	byName := make(map[string]string, len(r.Fields))
	for _, f := range r.Fields {
		byName[f.Name] = f.reduce()
	}
	for i, name := range header {
		if v, ok := r.Global[name]; ok {
			out[i] = v
			continue
		}
		out[i] = byName[name]
	}
	return out
}

// AppendCSV appends row to the CSV file at path, writing a header line if
// the file doesn't exist yet. If the file exists, its header must match
// row's column names exactly (same names, same order); a mismatch returns
// an *errs.HeaderMismatchError rather than silently reordering or
// truncating columns, matching the original's fatal-on-mismatch behavior.
func AppendCSV(path string, row Row) error {
	header := row.header()

	existing, err := readHeader(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("recorder: open %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if existing == nil {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("recorder: write header: %w", err)
		}
	} else if !equalHeaders(existing, header) {
		logx.Default().Err().Str("path", path).Log("recorder: header mismatch")
		return &errs.HeaderMismatchError{Path: path, Want: header, Got: existing}
	}

	if err := w.Write(row.values(header)); err != nil {
		return fmt.Errorf("recorder: write row: %w", err)
	}
	return nil
}

func readHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rec, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("recorder: read header: %w", err)
	}
	return rec, nil
}

func equalHeaders(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
