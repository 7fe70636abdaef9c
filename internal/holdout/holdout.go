// Package holdout reads the labelled evaluation table the model is scored
// against.
package holdout

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// LabelColumn is the binary target column every holdout file must carry.
const LabelColumn = "REPEAT"

// Record is one holdout row: named feature values plus the observed label.
type Record struct {
	Features map[string]float64
	Label    int
}

// Table is a parsed holdout file. Every record has exactly the keys listed
// in Columns. A Table is not modified after Load.
type Table struct {
	Path    string
	Columns []string
	Records []Record
}

// Load reads the CSV holdout file at path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DataLoadError{Path: path, Err: err}
	}
	defer f.Close()

	return Read(f, path)
}

// Read parses holdout CSV from r. The name is used in error messages and
// recorded as the table path.
func Read(r io.Reader, name string) (*Table, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return nil, &DataLoadError{Path: name, Line: perr.Line, Err: perr.Err}
		}
		return nil, &DataLoadError{Path: name, Err: err}
	}
	if len(rows) == 0 {
		return nil, &DataLoadError{Path: name, Err: errors.New("file is empty")}
	}

	header := make([]string, len(rows[0]))
	labelIdx := -1
	seen := make(map[string]bool, len(header))
	for i, col := range rows[0] {
		col = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		if col == "" {
			return nil, &DataLoadError{Path: name, Line: 1, Err: fmt.Errorf("column %d has an empty name", i+1)}
		}
		if seen[col] {
			return nil, &DataLoadError{Path: name, Line: 1, Err: fmt.Errorf("duplicate column %q", col)}
		}
		seen[col] = true
		header[i] = col
		if col == LabelColumn {
			labelIdx = i
		}
	}
	if labelIdx < 0 {
		return nil, &SchemaError{Path: name, Column: LabelColumn}
	}
	if len(rows) == 1 {
		return nil, &DataLoadError{Path: name, Err: errors.New("no data rows")}
	}

	t := &Table{Path: name}
	for i, col := range header {
		if i != labelIdx {
			t.Columns = append(t.Columns, col)
		}
	}

	t.Records = make([]Record, 0, len(rows)-1)
	for n, row := range rows[1:] {
		line := n + 2
		rec, err := parseRow(header, labelIdx, row)
		if err != nil {
			return nil, &DataLoadError{Path: name, Line: line, Err: err}
		}
		t.Records = append(t.Records, rec)
	}
	return t, nil
}

func parseRow(header []string, labelIdx int, row []string) (Record, error) {
	if len(row) != len(header) {
		return Record{}, fmt.Errorf("expected %d fields, got %d", len(header), len(row))
	}
	rec := Record{Features: make(map[string]float64, len(header)-1)}
	for i, raw := range row {
		raw = strings.TrimSpace(raw)
		if i == labelIdx {
			switch raw {
			case "0", "0.0":
				rec.Label = 0
			case "1", "1.0":
				rec.Label = 1
			default:
				return Record{}, fmt.Errorf("column %s: label %q is not 0 or 1", LabelColumn, raw)
			}
			continue
		}
		if raw == "" {
			return Record{}, fmt.Errorf("column %s: empty value", header[i])
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return Record{}, fmt.Errorf("column %s: %q is not a finite number", header[i], raw)
		}
		rec.Features[header[i]] = v
	}
	return rec, nil
}

// Batch returns the feature maps of every record, in file order.
func (t *Table) Batch() []map[string]float64 {
	out := make([]map[string]float64, len(t.Records))
	for i, r := range t.Records {
		out[i] = r.Features
	}
	return out
}

// Labels returns the observed labels, in file order.
func (t *Table) Labels() []int {
	out := make([]int, len(t.Records))
	for i, r := range t.Records {
		out[i] = r.Label
	}
	return out
}

// Column returns every value of a feature column, or nil if the table has
// no such column.
func (t *Table) Column(name string) []float64 {
	found := false
	for _, c := range t.Columns {
		if c == name {
			found = true
			break
		}
	}
	if !found {
		return nil
	}
	out := make([]float64, len(t.Records))
	for i, r := range t.Records {
		out[i] = r.Features[name]
	}
	return out
}

// Positives counts records labelled 1.
func (t *Table) Positives() int {
	n := 0
	for _, r := range t.Records {
		n += r.Label
	}
	return n
}
