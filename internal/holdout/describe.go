package holdout

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// ColumnSummary holds descriptive statistics for one feature column.
type ColumnSummary struct {
	Name   string
	Mean   float64
	Median float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summary describes a holdout table.
type Summary struct {
	Rows      int
	Positives int
	Rate      float64 // share of records labelled 1
	Columns   []ColumnSummary
}

// Describe computes per-column statistics in column order.
func Describe(t *Table) (Summary, error) {
	s := Summary{Rows: len(t.Records), Positives: t.Positives()}
	if s.Rows == 0 {
		return s, nil
	}
	s.Rate = float64(s.Positives) / float64(s.Rows)

	for _, name := range t.Columns {
		cs, err := summarize(name, t.Column(name))
		if err != nil {
			return Summary{}, err
		}
		s.Columns = append(s.Columns, cs)
	}
	return s, nil
}

func summarize(name string, values stats.Float64Data) (ColumnSummary, error) {
	cs := ColumnSummary{Name: name}
	var err error
	if cs.Mean, err = stats.Mean(values); err != nil {
		return cs, fmt.Errorf("column %s: mean: %w", name, err)
	}
	if cs.Median, err = stats.Median(values); err != nil {
		return cs, fmt.Errorf("column %s: median: %w", name, err)
	}
	if cs.StdDev, err = stats.StandardDeviation(values); err != nil {
		return cs, fmt.Errorf("column %s: stddev: %w", name, err)
	}
	if cs.Min, err = stats.Min(values); err != nil {
		return cs, fmt.Errorf("column %s: min: %w", name, err)
	}
	if cs.Max, err = stats.Max(values); err != nil {
		return cs, fmt.Errorf("column %s: max: %w", name, err)
	}
	return cs, nil
}
