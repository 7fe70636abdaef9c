package predict

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/pisaph/pisaph/internal/catalog"
	"github.com/pisaph/pisaph/internal/evaluation"
	"github.com/pisaph/pisaph/internal/model"
	"github.com/pisaph/pisaph/internal/router"
	"github.com/pisaph/pisaph/internal/screen"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "advisor" }
func (s *stubScreen) Title() string                           { return "Advisor" }

type stubEstimator struct {
	contract    model.Contract
	contractErr error
	got         map[string]string
	estimate    evaluation.Estimate
	err         error
}

func (s *stubEstimator) Contract() (model.Contract, error) {
	return s.contract, s.contractErr
}

func (s *stubEstimator) Estimate(_ context.Context, input map[string]string) (evaluation.Estimate, error) {
	s.got = input
	return s.estimate, s.err
}

func ptr(v float64) *float64 { return &v }

func testContract() model.Contract {
	return model.Contract{
		Version: "v1.0.0",
		Fields: []model.Field{
			{Name: "ESCS", Label: "Socio-economic index", Kind: model.FieldNumeric, Min: ptr(-5), Max: ptr(5)},
			{Name: "FEMALE", Label: "Sex", Kind: model.FieldCategorical, Levels: []model.Level{
				{Label: "Male", Code: 0}, {Label: "Female", Code: 1},
			}},
		},
	}
}

func newForm(t *testing.T, est Estimator, advisor AdvisorOpener) *FormScreen {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatal(err)
	}
	entry, err := cat.Lookup(catalog.KeyRecommender)
	if err != nil {
		t.Fatal(err)
	}
	s := New(cat, entry, est, advisor)
	s.Update(s.Init()())
	return s
}

func press(s *FormScreen, code rune) tea.Cmd {
	msg := tea.KeyPressMsg{Code: code}
	if code > 32 && code < 127 {
		msg.Text = string(code)
	}
	_, cmd := s.Update(msg)
	return cmd
}

// submitForm moves focus to the Estimate button and runs the estimate.
func submitForm(t *testing.T, s *FormScreen) {
	t.Helper()
	s.setFocus(len(s.fields))
	cmd := press(s, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("enter on the Estimate button should submit")
	}
	s.Update(cmd())
}

func TestFormBuiltFromContract(t *testing.T) {
	s := newForm(t, &stubEstimator{contract: testContract()}, nil)

	if len(s.fields) != 2 {
		t.Fatalf("fields = %d, want 2", len(s.fields))
	}
	if !s.CapturingInput() {
		t.Error("first field is numeric and should capture input")
	}
	view := s.View(120, 200)
	for _, want := range []string{"Socio-economic index", "Sex", "Male", "Female", "Estimate"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestNumericFieldRejectsLetters(t *testing.T) {
	s := newForm(t, &stubEstimator{contract: testContract()}, nil)

	press(s, 'x')
	if got := s.fields[0].value(); got != "" {
		t.Errorf("numeric field accepted a letter: %q", got)
	}
}

func TestChoiceToggle(t *testing.T) {
	s := newForm(t, &stubEstimator{contract: testContract()}, nil)

	press(s, tea.KeyTab)
	if s.CapturingInput() {
		t.Error("a selector should not capture input")
	}
	press(s, tea.KeyRight)
	if got := s.Input()["FEMALE"]; got != "Female" {
		t.Errorf("FEMALE = %q, want Female", got)
	}
}

func TestSubmitSendsRawInput(t *testing.T) {
	est := &stubEstimator{
		contract: testContract(),
		estimate: evaluation.Estimate{Probability: 0.72, Label: 1, Threshold: 0.5},
	}
	s := newForm(t, est, nil)
	s.fields[0].input.SetValue("-1.5")

	submitForm(t, s)

	want := map[string]string{"ESCS": "-1.5", "FEMALE": "Male"}
	for k, v := range want {
		if est.got[k] != v {
			t.Errorf("input[%s] = %q, want %q", k, est.got[k], v)
		}
	}
	view := s.View(120, 200)
	if !strings.Contains(view, "72.0%") || !strings.Contains(view, "Likely to repeat") {
		t.Errorf("expected estimate in view, got:\n%s", view)
	}
}

func TestEncodingErrorShownAtField(t *testing.T) {
	est := &stubEstimator{
		contract: testContract(),
		err:      &model.EncodingError{Field: "ESCS", Value: "9", Reason: "above maximum 5"},
	}
	s := newForm(t, est, nil)
	s.fields[0].input.SetValue("9")

	submitForm(t, s)

	if s.focus != 0 {
		t.Errorf("focus = %d, want the failing field", s.focus)
	}
	if !strings.Contains(s.View(120, 200), "above maximum 5") {
		t.Error("expected the field error in the form")
	}
}

func TestContractErrorShown(t *testing.T) {
	s := newForm(t, &stubEstimator{contractErr: errors.New("load model model.json: missing")}, nil)

	if !strings.Contains(s.View(120, 200), "Model unavailable") {
		t.Error("expected load error")
	}
	if cmd := press(s, tea.KeyEnter); cmd != nil {
		t.Error("keys should be ignored without a contract")
	}
}

func TestAskAdvisorAfterEstimate(t *testing.T) {
	est := &stubEstimator{
		contract: testContract(),
		estimate: evaluation.Estimate{Probability: 0.3, Threshold: 0.5},
	}
	var gotProfile map[string]string
	opener := func(profile map[string]string, e evaluation.Estimate) screen.Screen {
		gotProfile = profile
		return &stubScreen{}
	}
	s := newForm(t, est, opener)

	if s.buttons() != 1 {
		t.Fatal("advisor button should wait for an estimate")
	}
	s.fields[0].input.SetValue("0")
	submitForm(t, s)

	press(s, tea.KeyTab)
	cmd := press(s, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("expected push command")
	}
	if _, ok := cmd().(router.PushScreenMsg); !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	if gotProfile["Socio-economic index"] != "0" || gotProfile["Sex"] != "Male" {
		t.Errorf("profile = %v", gotProfile)
	}
}
