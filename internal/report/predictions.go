// Package report exports evaluation output: per-record predictions as CSV
// and the ROC curve as a PNG chart.
package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/pisaph/pisaph/internal/evaluation"
)

// PredictionRow is one holdout record's outcome.
type PredictionRow struct {
	Index       int     `csv:"index"`
	Label       int     `csv:"label"`
	Predicted   int     `csv:"predicted"`
	Probability float64 `csv:"probability"`
}

// Rows lines up the scores by record index.
func Rows(s evaluation.Scores) ([]PredictionRow, error) {
	n := len(s.Labels)
	if len(s.Predictions) != n || len(s.Probabilities) != n {
		return nil, fmt.Errorf("scores length mismatch: %d labels, %d predictions, %d probabilities",
			n, len(s.Predictions), len(s.Probabilities))
	}
	rows := make([]PredictionRow, n)
	for i := range rows {
		rows[i] = PredictionRow{
			Index:       i,
			Label:       s.Labels[i],
			Predicted:   s.Predictions[i],
			Probability: s.Probabilities[i],
		}
	}
	return rows, nil
}

// WritePredictions writes index,label,predicted,probability rows with a
// header line.
func WritePredictions(w io.Writer, s evaluation.Scores) error {
	rows, err := Rows(s)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return errors.New("no predictions to write")
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("write predictions: %w", err)
	}
	return nil
}
