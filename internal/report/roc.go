package report

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/pisaph/pisaph/internal/evaluation"
	chart "github.com/wcharczuk/go-chart"
)

// ErrNoCurve is returned when there is no ROC curve to draw, which happens
// when the holdout labels are single-class.
var ErrNoCurve = errors.New("report: no ROC curve for single-class labels")

// ROCChart builds the chart for a ROC curve with the chance diagonal.
func ROCChart(points []evaluation.ROCPoint, auc float64) (chart.Chart, error) {
	if len(points) < 2 {
		return chart.Chart{}, ErrNoCurve
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.FPR, p.TPR
	}

	name := "ROC"
	if !math.IsNaN(auc) {
		name = fmt.Sprintf("ROC (AUC = %.3f)", auc)
	}

	unit := &chart.ContinuousRange{Min: 0, Max: 1}
	graph := chart.Chart{
		Title:      "Grade repetition classifier",
		TitleStyle: chart.StyleShow(),
		XAxis: chart.XAxis{
			Name:      "False positive rate",
			NameStyle: chart.StyleShow(),
			Style:     chart.StyleShow(),
			Range:     unit,
		},
		YAxis: chart.YAxis{
			Name:      "True positive rate",
			NameStyle: chart.StyleShow(),
			Style:     chart.StyleShow(),
			Range:     unit,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    name,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					Show:        true,
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 2,
				},
			},
			chart.ContinuousSeries{
				Name:    "Chance",
				XValues: []float64{0, 1},
				YValues: []float64{0, 1},
				Style: chart.Style{
					Show:            true,
					StrokeColor:     chart.GetAlternateColor(1),
					StrokeDashArray: []float64{5, 5},
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}
	return graph, nil
}

// WriteROCChart renders the ROC curve as a PNG.
func WriteROCChart(w io.Writer, points []evaluation.ROCPoint, auc float64) error {
	graph, err := ROCChart(points, auc)
	if err != nil {
		return err
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render ROC chart: %w", err)
	}
	return nil
}
