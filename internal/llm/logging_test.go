package llm

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/pisaph/pisaph/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "llm.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

type failingEvents struct{ store.EventRepo }

func (failingEvents) AppendLLMRequest(context.Context, store.LLMRequestEventData) error {
	return errors.New("disk full")
}

func TestLoggingProvider_RecordsSuccess(t *testing.T) {
	s := openTestStore(t)
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"feature":"ESCS","rank":1}`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 7, TotalTokens: 19},
	})
	p := WithLogging(mock, ProviderMock, s.EventRepo(), nil)

	ctx := WithPurpose(context.Background(), PurposeInterventionPlan)
	_, err := p.Generate(ctx, Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
		Schema:   testSchema(),
	})
	require.NoError(t, err)

	events, err := s.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, ProviderMock, ev.Provider)
	assert.Equal(t, PurposeInterventionPlan, ev.Purpose)
	assert.True(t, ev.Success)
	assert.Equal(t, 12, ev.InputTokens)
	assert.Equal(t, 7, ev.OutputTokens)
	assert.Contains(t, ev.RequestBody, "[system]\nsys")
	assert.Contains(t, ev.RequestBody, "[user]\nhello")
	assert.Contains(t, ev.RequestBody, "[schema: risk-note]")
	assert.JSONEq(t, `{"feature":"ESCS","rank":1}`, ev.ResponseBody)
}

func TestLoggingProvider_RecordsFailure(t *testing.T) {
	s := openTestStore(t)
	core, logs := observer.New(zapcore.WarnLevel)
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}})
	p := WithLogging(mock, ProviderMock, s.EventRepo(), zap.New(core))

	_, err := p.Generate(context.Background(), Request{})
	require.Error(t, err)

	events, err := s.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.False(t, events[0].Success)
	assert.Contains(t, events[0].ErrorMessage, "down")
	assert.Equal(t, PurposeUnknown, events[0].Purpose)
	assert.Equal(t, 1, logs.FilterMessage("llm request failed").Len())
}

func TestLoggingProvider_StoreFailureDoesNotFailRequest(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithLogging(mock, ProviderMock, failingEvents{}, zap.New(core))

	resp, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(resp.Content))
	assert.Equal(t, 1, logs.FilterMessage("record llm request").Len())
}

func TestNewProvider(t *testing.T) {
	s := openTestStore(t)

	_, err := NewProvider(context.Background(), DefaultConfig(), s.EventRepo(), nil)
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewProvider(context.Background(), Config{Provider: ProviderOpenAI}, nil, nil)
	assert.Error(t, err)

	cfg := DefaultConfig()
	cfg.Provider = ProviderOpenRouter
	cfg.OpenRouter.APIKey = "sk-or-test"
	p, err := NewProvider(context.Background(), cfg, s.EventRepo(), nil)
	require.NoError(t, err)
	assert.Equal(t, "google/gemini-2.0-flash-001", p.ModelID())
	assert.IsType(t, &RetryProvider{}, p)

	cfg.Provider = ProviderMock
	p, err = NewProvider(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, ProviderMock, p.ModelID())
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("gpt-4o-mini")
	require.NotNil(t, c)
	assert.InDelta(t, 0.15+0.6, c.Cost(1_000_000, 1_000_000), 1e-9)
	assert.Nil(t, LookupCost("no-such-model"))
}
