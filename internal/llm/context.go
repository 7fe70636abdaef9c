package llm

import "context"

type contextKey struct{}

// Purposes recorded with every LLM event.
const (
	PurposeInterventionPlan = "intervention-plan"
	PurposeUnknown          = "unknown"
)

// WithPurpose labels requests made with ctx for event logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, contextKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or PurposeUnknown.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(contextKey{}).(string); ok && v != "" {
		return v
	}
	return PurposeUnknown
}
