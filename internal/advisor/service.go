package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pisaph/pisaph/internal/catalog"
	"github.com/pisaph/pisaph/internal/llm"
	"go.uber.org/zap"
)

// Service drafts intervention plans. It never fails a Recommend call: a
// missing or failing provider yields the catalog plan instead.
type Service struct {
	provider llm.Provider
	catalog  *catalog.Catalog
	cfg      Config
	log      *zap.Logger
}

// NewService creates an advisor. provider may be nil, in which case every
// plan is the catalog fallback.
func NewService(provider llm.Provider, cat *catalog.Catalog, cfg Config, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{provider: provider, catalog: cat, cfg: cfg, log: log}
}

// Enabled reports whether a language model is configured.
func (s *Service) Enabled() bool { return s.provider != nil }

type planOutput struct {
	Summary         string           `json:"summary"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Recommend returns a generated plan, or the catalog plan when generation
// is unavailable.
func (s *Service) Recommend(ctx context.Context, input Input) Plan {
	if s.provider == nil {
		return s.Fallback("no language model configured")
	}

	plan, err := s.generate(ctx, input)
	if err != nil {
		s.log.Warn("advisor generation failed, using catalog plan", zap.Error(err))
		return s.Fallback(err.Error())
	}
	return plan
}

func (s *Service) generate(ctx context.Context, input Input) (Plan, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeInterventionPlan)
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	if n := s.cfg.TopFeatures; n > 0 && len(input.Top) > n {
		input.Top = input.Top[:n]
	}

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(input)}},
		Schema:      PlanSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return Plan{}, fmt.Errorf("intervention plan: %w", err)
	}

	var out planOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return Plan{}, fmt.Errorf("parse intervention plan: %w", err)
	}
	if len(out.Recommendations) == 0 {
		return Plan{}, errors.New("intervention plan has no recommendations")
	}

	return Plan{
		Summary:         out.Summary,
		Recommendations: out.Recommendations,
		Model:           resp.Model,
	}, nil
}

// Fallback builds a plan from the catalog's recommendations section with
// fact placeholders expanded.
func (s *Service) Fallback(reason string) Plan {
	plan := Plan{Fallback: true, Reason: reason}
	if s.catalog == nil {
		return plan
	}
	entry, err := s.catalog.Lookup(catalog.KeyRecommendations)
	if err != nil {
		return plan
	}
	plan.Summary = s.catalog.Expand(entry.Subtitle)
	for _, r := range entry.Recommendations {
		plan.Recommendations = append(plan.Recommendations, Recommendation{
			Title:     r.Title,
			Rationale: s.catalog.Expand(r.Rationale),
			Audience:  r.Audience,
		})
	}
	return plan
}
