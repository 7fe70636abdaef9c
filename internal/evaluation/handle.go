package evaluation

import (
	"context"
	"sync"

	"github.com/pisaph/pisaph/internal/holdout"
	"github.com/pisaph/pisaph/internal/model"
	"golang.org/x/sync/errgroup"
)

// Handle is the loaded model plus its holdout table. It is immutable after
// Open and safe to share between goroutines.
type Handle struct {
	Model       model.Model
	Table       *holdout.Table
	ModelPath   string
	HoldoutPath string
}

// Open loads the model artifact and the holdout table concurrently.
func Open(ctx context.Context, modelPath, holdoutPath string) (*Handle, error) {
	h := &Handle{ModelPath: modelPath, HoldoutPath: holdoutPath}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		m, err := model.Load(modelPath)
		if err != nil {
			return err
		}
		h.Model = m
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		t, err := holdout.Load(holdoutPath)
		if err != nil {
			return err
		}
		h.Table = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return h, nil
}

// Evaluate scores the handle's model over its holdout table.
func (h *Handle) Evaluate() (Result, error) {
	return Evaluate(h.Model, h.Table.Records)
}

// Score returns the raw model outputs over the holdout table.
func (h *Handle) Score() (Scores, error) {
	return Score(h.Model, h.Table.Records)
}

// ROC returns the ROC curve over the holdout table.
func (h *Handle) ROC() ([]ROCPoint, error) {
	return ROC(h.Model, h.Table.Records)
}

// Importance ranks the model's features over the holdout table.
func (h *Handle) Importance() ([]FeatureImportance, error) {
	return Importance(h.Model, h.Table)
}

// PredictOne estimates a single hand-entered record.
func (h *Handle) PredictOne(input map[string]string) (float64, error) {
	return PredictOne(h.Model, input)
}

// Loader opens a Handle on first use and returns the same handle, or the
// same error, on every later call.
type Loader struct {
	ModelPath   string
	HoldoutPath string

	load func() (*Handle, error)
}

// NewLoader returns a Loader for the given paths. Nothing is read until
// Handle is called.
func NewLoader(modelPath, holdoutPath string) *Loader {
	l := &Loader{ModelPath: modelPath, HoldoutPath: holdoutPath}
	l.load = sync.OnceValues(func() (*Handle, error) {
		return Open(context.Background(), modelPath, holdoutPath)
	})
	return l
}

// Handle returns the memoized handle.
func (l *Loader) Handle() (*Handle, error) {
	return l.load()
}
