package evaluation

import (
	"math"
	"sort"

	"github.com/pisaph/pisaph/internal/holdout"
	"github.com/pisaph/pisaph/internal/model"
)

// ROCPoint is one vertex of the ROC curve. Threshold is the lowest score
// classified positive at this point; the first point uses +Inf.
type ROCPoint struct {
	FPR       float64
	TPR       float64
	Threshold float64
}

// ROC computes the ROC curve of the model over records.
func ROC(m model.Model, records []holdout.Record) ([]ROCPoint, error) {
	s, err := Score(m, records)
	if err != nil {
		return nil, err
	}
	return ROCCurve(s.Labels, s.Probabilities), nil
}

// ROCCurve ranks records by descending score and emits one point per
// distinct score, so tied scores move along the diagonal together. It
// returns nil when labels contain only one class or the slices differ in
// length.
func ROCCurve(labels []int, scores []float64) []ROCPoint {
	var pos, neg int
	for _, y := range labels {
		if y == 1 {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 || len(labels) != len(scores) {
		return nil
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })

	points := []ROCPoint{{FPR: 0, TPR: 0, Threshold: math.Inf(1)}}
	var tp, fp int
	for i := 0; i < len(order); {
		s := scores[order[i]]
		for first := true; i < len(order) && (first || scores[order[i]] == s); i++ {
			first = false
			if labels[order[i]] == 1 {
				tp++
			} else {
				fp++
			}
		}
		points = append(points, ROCPoint{
			FPR:       float64(fp) / float64(neg),
			TPR:       float64(tp) / float64(pos),
			Threshold: s,
		})
	}
	return points
}

// AUC integrates a ROC curve with the trapezoidal rule. An empty curve
// yields NaN.
func AUC(points []ROCPoint) float64 {
	if len(points) < 2 {
		return math.NaN()
	}
	var area float64
	for i := 1; i < len(points); i++ {
		dx := points[i].FPR - points[i-1].FPR
		area += dx * (points[i].TPR + points[i-1].TPR) / 2
	}
	return area
}
