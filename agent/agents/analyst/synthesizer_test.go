package analyst

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/Trivium-Parallel-Research-Agent/agent/contract"
)

func newTestSynthesizer(t *testing.T, model *fakeToolCallingModel) *synthesizerImpl {
	t.Helper()
	s, err := newSynthesizer(context.Background(), model, "You write executive briefs.")
	if err != nil {
		t.Fatalf("newSynthesizer() error = %v", err)
	}
	return s
}

func TestNewSynthesizerRequiresPrompt(t *testing.T) {
	t.Parallel()

	_, err := newSynthesizer(context.Background(), &fakeToolCallingModel{}, "   ")
	if !errors.Is(err, contractx.ErrPromptMissing) {
		t.Fatalf("expected ErrPromptMissing, got %v", err)
	}
}

func TestSynthesizeProducesBrief(t *testing.T) {
	t.Parallel()

	model := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Role: schema.Assistant, Content: "  Electronics revenue is up 12% year over year.  "},
		},
	}
	s := newTestSynthesizer(t, model)

	brief, err := s.Synthesize(context.Background(), contractx.SynthesisInput{
		Question: "How is Electronics performing?",
		Sections: map[string]string{
			SlotInternalData:  "internal findings",
			SlotTrendAnalysis: "trend findings",
		},
	})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if brief != "Electronics revenue is up 12% year over year." {
		t.Fatalf("unexpected brief %q", brief)
	}

	if len(model.inputs) != 1 {
		t.Fatalf("expected one model call, got %d", len(model.inputs))
	}
	user := model.inputs[0][len(model.inputs[0])-1]
	if user.Role != schema.User {
		t.Fatalf("expected user payload message, got role %s", user.Role)
	}
	for _, want := range []string{"How is Electronics performing?", SlotInternalData, "trend findings"} {
		if !strings.Contains(user.Content, want) {
			t.Fatalf("payload missing %q: %s", want, user.Content)
		}
	}
}

func TestSynthesizeNamesUnavailablePerspectives(t *testing.T) {
	t.Parallel()

	model := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Role: schema.Assistant, Content: "Partial brief without market input."},
		},
	}
	s := newTestSynthesizer(t, model)

	_, err := s.Synthesize(context.Background(), contractx.SynthesisInput{
		Question:    "How is Electronics performing?",
		Sections:    map[string]string{SlotInternalData: "internal findings"},
		Unavailable: []string{SlotMarketResearch},
	})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	user := model.inputs[0][len(model.inputs[0])-1]
	if !strings.Contains(user.Content, SlotMarketResearch) {
		t.Fatalf("payload should name the unavailable perspective: %s", user.Content)
	}
}

func TestSynthesizeValidation(t *testing.T) {
	t.Parallel()

	s := newTestSynthesizer(t, &fakeToolCallingModel{})

	_, err := s.Synthesize(context.Background(), contractx.SynthesisInput{
		Sections: map[string]string{SlotInternalData: "findings"},
	})
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation for blank question, got %v", err)
	}

	_, err = s.Synthesize(context.Background(), contractx.SynthesisInput{Question: "q"})
	if !errors.Is(err, contractx.ErrSynthesis) {
		t.Fatalf("expected ErrSynthesis for empty sections, got %v", err)
	}
}

func TestSynthesizeModelFailureIsSynthesisError(t *testing.T) {
	t.Parallel()

	model := &fakeToolCallingModel{errs: []error{errors.New("503 upstream unavailable")}}
	s := newTestSynthesizer(t, model)

	_, err := s.Synthesize(context.Background(), contractx.SynthesisInput{
		Question: "q",
		Sections: map[string]string{SlotInternalData: "findings"},
	})
	if !errors.Is(err, contractx.ErrSynthesis) {
		t.Fatalf("expected ErrSynthesis, got %v", err)
	}
	if !strings.Contains(err.Error(), "503") {
		t.Fatalf("expected cause in error, got %v", err)
	}
}

func TestSynthesizeEmptyContentIsSynthesisError(t *testing.T) {
	t.Parallel()

	model := &fakeToolCallingModel{
		responses: []*schema.Message{{Role: schema.Assistant, Content: "   "}},
	}
	s := newTestSynthesizer(t, model)

	_, err := s.Synthesize(context.Background(), contractx.SynthesisInput{
		Question: "q",
		Sections: map[string]string{SlotInternalData: "findings"},
	})
	if !errors.Is(err, contractx.ErrSynthesis) {
		t.Fatalf("expected ErrSynthesis for empty brief, got %v", err)
	}
}
