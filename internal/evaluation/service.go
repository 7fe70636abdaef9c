package evaluation

import (
	"context"
	"time"

	"github.com/pisaph/pisaph/internal/model"
	"github.com/pisaph/pisaph/internal/store"
	"go.uber.org/zap"
)

// Estimate is the outcome of one single-record prediction.
type Estimate struct {
	Probability float64
	Label       int
	Threshold   float64
}

// Service evaluates the memoized handle and records every run and
// estimate. Recording is best effort: a store failure is logged and the
// result is still returned.
type Service struct {
	loader *Loader
	runs   store.RunRepo
	log    *zap.Logger
}

// NewService creates a Service. runs and log may be nil.
func NewService(loader *Loader, runs store.RunRepo, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{loader: loader, runs: runs, log: log}
}

// Handle returns the loaded model and holdout table.
func (s *Service) Handle() (*Handle, error) {
	h, err := s.loader.Handle()
	if err != nil {
		s.log.Error("load evaluation handle",
			zap.String("model_path", s.loader.ModelPath),
			zap.String("holdout_path", s.loader.HoldoutPath),
			zap.Error(err))
		return nil, err
	}
	return h, nil
}

// Contract returns the loaded model's encoding contract.
func (s *Service) Contract() (model.Contract, error) {
	h, err := s.Handle()
	if err != nil {
		return model.Contract{}, err
	}
	return h.Model.Contract(), nil
}

// Importance ranks the loaded model's features over the holdout table.
func (s *Service) Importance() ([]FeatureImportance, error) {
	h, err := s.Handle()
	if err != nil {
		return nil, err
	}
	return h.Importance()
}

// Run evaluates the model over the holdout table and records the run.
func (s *Service) Run(ctx context.Context) (Result, error) {
	h, err := s.Handle()
	if err != nil {
		return Result{}, err
	}

	start := time.Now()
	res, err := h.Evaluate()
	if err != nil {
		s.log.Error("evaluate", zap.String("model", h.Model.Name()), zap.Error(err))
		return Result{}, err
	}
	s.log.Info("evaluation complete",
		zap.String("model", res.Model),
		zap.Int("records", res.N),
		zap.Float64("accuracy", res.Accuracy),
		zap.Float64("f1", res.F1),
		zap.Duration("elapsed", time.Since(start)))

	if s.runs != nil {
		run := store.EvaluationRun{
			Timestamp:   start,
			ModelName:   res.Model,
			ModelKind:   h.Model.Kind(),
			ModelPath:   h.ModelPath,
			HoldoutPath: h.HoldoutPath,
			Records:     res.N,
			Accuracy:    res.Accuracy,
			Precision:   res.Precision,
			Recall:      res.Recall,
			F1:          res.F1,
			ROCAUC:      res.ROCAUC,
			TP:          res.Confusion.TP,
			FP:          res.Confusion.FP,
			TN:          res.Confusion.TN,
			FN:          res.Confusion.FN,
		}
		if _, err := s.runs.SaveRun(ctx, run); err != nil {
			s.log.Warn("record evaluation run", zap.Error(err))
		}
	}
	return res, nil
}

// Estimate predicts one hand-entered record and records the estimate.
func (s *Service) Estimate(ctx context.Context, input map[string]string) (Estimate, error) {
	h, err := s.Handle()
	if err != nil {
		return Estimate{}, err
	}

	p, err := h.PredictOne(input)
	if err != nil {
		s.log.Info("estimate rejected", zap.Error(err))
		return Estimate{}, err
	}
	est := Estimate{Probability: p, Threshold: h.Model.Threshold()}
	if p >= est.Threshold {
		est.Label = 1
	}

	if s.runs != nil {
		ev := store.PredictionEvent{
			ModelName:       h.Model.Name(),
			ContractVersion: h.Model.Contract().Version,
			Inputs:          input,
			Probability:     p,
			Label:           est.Label,
		}
		if _, err := s.runs.SavePrediction(ctx, ev); err != nil {
			s.log.Warn("record prediction", zap.Error(err))
		}
	}
	return est, nil
}
