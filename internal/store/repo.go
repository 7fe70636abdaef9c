package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// EvaluationRun is one recorded evaluation of a model over a holdout table.
type EvaluationRun struct {
	ID          string // uuid, assigned on save when empty
	Sequence    int64
	Timestamp   time.Time
	ModelName   string
	ModelKind   string
	ModelPath   string
	HoldoutPath string
	Records     int
	Accuracy    float64
	Precision   float64
	Recall      float64
	F1          float64
	ROCAUC      float64 // NaN when undefined, stored as NULL
	TP, FP      int
	TN, FN      int
}

// PredictionEvent is one recorded single-record estimate.
type PredictionEvent struct {
	ID              int64
	Sequence        int64
	Timestamp       time.Time
	ModelName       string
	ContractVersion string
	Inputs          map[string]string
	Probability     float64
	Label           int
}

// RunRepo stores evaluation runs and single-record predictions.
type RunRepo interface {
	// SaveRun records an evaluation run and returns it with ID, Sequence
	// and Timestamp filled in.
	SaveRun(ctx context.Context, run EvaluationRun) (EvaluationRun, error)

	// ListRuns returns runs newest first.
	ListRuns(ctx context.Context, opts QueryOpts) ([]EvaluationRun, error)

	// GetRun returns the run with the given ID, or nil if none exists.
	GetRun(ctx context.Context, id string) (*EvaluationRun, error)

	// SavePrediction records a single-record estimate.
	SavePrediction(ctx context.Context, ev PredictionEvent) (PredictionEvent, error)

	// ListPredictions returns predictions newest first.
	ListPredictions(ctx context.Context, opts QueryOpts) ([]PredictionEvent, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates LLM calls sharing a purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates LLM calls per model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one event, or nil if none exists.
	GetLLMEvent(ctx context.Context, id int64) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates token usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
