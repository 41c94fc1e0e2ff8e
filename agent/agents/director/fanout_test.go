package director

import (
	"context"
	"errors"
	"testing"
	"time"

	contractx "github.com/tanpawarit/Trivium-Parallel-Research-Agent/agent/contract"
	statex "github.com/tanpawarit/Trivium-Parallel-Research-Agent/agent/state"
)

type fakeAnalyst struct {
	analystType contractx.AnalystType
	slotKey     string
	text        string
	err         error
	delay       time.Duration
	panics      bool
}

func (f *fakeAnalyst) Type() contractx.AnalystType {
	return f.analystType
}

func (f *fakeAnalyst) SlotKey() string {
	return f.slotKey
}

func (f *fakeAnalyst) Research(ctx context.Context, question string) (string, error) {
	if f.panics {
		panic("analyst blew up")
	}
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(f.delay):
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func threeAnalysts() []contractx.Analyst {
	return []contractx.Analyst{
		&fakeAnalyst{analystType: contractx.AnalystTypeInternalData, slotKey: "internal_data", text: "internal findings"},
		&fakeAnalyst{analystType: contractx.AnalystTypeMarketResearch, slotKey: "market_research", text: "market findings"},
		&fakeAnalyst{analystType: contractx.AnalystTypeTrend, slotKey: "trend_analysis", text: "trend findings"},
	}
}

func TestNewGroupRejectsDuplicateSlotKey(t *testing.T) {
	t.Parallel()

	analysts := []contractx.Analyst{
		&fakeAnalyst{analystType: contractx.AnalystTypeInternalData, slotKey: "shared"},
		&fakeAnalyst{analystType: contractx.AnalystTypeTrend, slotKey: "shared"},
	}
	_, err := NewGroup(analysts, GroupConfig{})
	if !errors.Is(err, contractx.ErrSlotConflict) {
		t.Fatalf("expected ErrSlotConflict, got %v", err)
	}
}

func TestNewGroupRejectsDuplicateAnalystType(t *testing.T) {
	t.Parallel()

	analysts := []contractx.Analyst{
		&fakeAnalyst{analystType: contractx.AnalystTypeTrend, slotKey: "a"},
		&fakeAnalyst{analystType: contractx.AnalystTypeTrend, slotKey: "b"},
	}
	_, err := NewGroup(analysts, GroupConfig{})
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestNewGroupRejectsEmptyRoster(t *testing.T) {
	t.Parallel()

	_, err := NewGroup(nil, GroupConfig{})
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRunAllAnalystsPopulateSlotsBeforeBarrierReleases(t *testing.T) {
	t.Parallel()

	group, err := NewGroup(threeAnalysts(), GroupConfig{})
	if err != nil {
		t.Fatalf("NewGroup() error = %v", err)
	}

	session := statex.NewSessionState("session-1", time.Now().UTC())
	session.BeginTurn("how is electronics doing", time.Now().UTC())

	outcomes, err := group.Run(context.Background(), session, "how is electronics doing")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(outcomes) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(outcomes))
	}
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			t.Fatalf("analyst %s failed: %v", outcome.Analyst, outcome.Err)
		}
	}

	slots := session.ReadAll()
	if len(slots) != 3 {
		t.Fatalf("expected 3 populated slots at barrier release, got %d", len(slots))
	}
	if slots["internal_data"] != "internal findings" {
		t.Fatalf("internal_data slot = %q", slots["internal_data"])
	}
	if slots["trend_analysis"] != "trend findings" {
		t.Fatalf("trend_analysis slot = %q", slots["trend_analysis"])
	}
}

func TestRunTimedOutAnalystIsIsolated(t *testing.T) {
	t.Parallel()

	analysts := []contractx.Analyst{
		&fakeAnalyst{analystType: contractx.AnalystTypeInternalData, slotKey: "internal_data", text: "internal findings"},
		&fakeAnalyst{analystType: contractx.AnalystTypeMarketResearch, slotKey: "market_research", delay: 5 * time.Second},
		&fakeAnalyst{analystType: contractx.AnalystTypeTrend, slotKey: "trend_analysis", text: "trend findings"},
	}
	group, err := NewGroup(analysts, GroupConfig{
		AnalystTimeout: 30 * time.Millisecond,
		GroupTimeout:   time.Second,
	})
	if err != nil {
		t.Fatalf("NewGroup() error = %v", err)
	}

	session := statex.NewSessionState("session-1", time.Now().UTC())
	session.BeginTurn("q", time.Now().UTC())

	outcomes, err := group.Run(context.Background(), session, "q")
	if err != nil {
		t.Fatalf("one timeout must not degrade the group: %v", err)
	}

	var timedOut *contractx.Outcome
	for i := range outcomes {
		if outcomes[i].Analyst == contractx.AnalystTypeMarketResearch {
			timedOut = &outcomes[i]
		}
	}
	if timedOut == nil || !errors.Is(timedOut.Err, contractx.ErrAnalystTimeout) {
		t.Fatalf("expected market research timeout outcome, got %+v", timedOut)
	}

	slots := session.ReadAll()
	if len(slots) != 2 {
		t.Fatalf("expected 2 populated slots, got %d", len(slots))
	}
	if _, ok := slots["market_research"]; ok {
		t.Fatal("timed out analyst must not have a slot")
	}
}

func TestRunFailingAnalystDoesNotCancelSiblings(t *testing.T) {
	t.Parallel()

	bad := errors.New("model returned 500")
	analysts := []contractx.Analyst{
		&fakeAnalyst{analystType: contractx.AnalystTypeInternalData, slotKey: "internal_data", err: bad},
		&fakeAnalyst{analystType: contractx.AnalystTypeMarketResearch, slotKey: "market_research", text: "market findings", delay: 20 * time.Millisecond},
		&fakeAnalyst{analystType: contractx.AnalystTypeTrend, slotKey: "trend_analysis", text: "trend findings", delay: 20 * time.Millisecond},
	}
	group, err := NewGroup(analysts, GroupConfig{})
	if err != nil {
		t.Fatalf("NewGroup() error = %v", err)
	}

	session := statex.NewSessionState("session-1", time.Now().UTC())
	session.BeginTurn("q", time.Now().UTC())

	outcomes, err := group.Run(context.Background(), session, "q")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(outcomes) != 3 {
		t.Fatalf("barrier must wait for all members, got %d outcomes", len(outcomes))
	}

	slots := session.ReadAll()
	if slots["market_research"] != "market findings" || slots["trend_analysis"] != "trend findings" {
		t.Fatalf("sibling slots missing: %v", slots)
	}
}

func TestRunPanickingAnalystIsContained(t *testing.T) {
	t.Parallel()

	analysts := []contractx.Analyst{
		&fakeAnalyst{analystType: contractx.AnalystTypeInternalData, slotKey: "internal_data", panics: true},
		&fakeAnalyst{analystType: contractx.AnalystTypeTrend, slotKey: "trend_analysis", text: "trend findings"},
	}
	group, err := NewGroup(analysts, GroupConfig{})
	if err != nil {
		t.Fatalf("NewGroup() error = %v", err)
	}

	session := statex.NewSessionState("session-1", time.Now().UTC())
	session.BeginTurn("q", time.Now().UTC())

	outcomes, err := group.Run(context.Background(), session, "q")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var panicked bool
	for _, outcome := range outcomes {
		if outcome.Analyst == contractx.AnalystTypeInternalData && outcome.Err != nil {
			panicked = true
		}
	}
	if !panicked {
		t.Fatal("panicking analyst must produce a failure outcome")
	}
	if session.ReadAll()["trend_analysis"] != "trend findings" {
		t.Fatal("sibling must still write its slot")
	}
}

func TestRunAllFailedDegradesGroup(t *testing.T) {
	t.Parallel()

	bad := errors.New("model down")
	analysts := []contractx.Analyst{
		&fakeAnalyst{analystType: contractx.AnalystTypeInternalData, slotKey: "internal_data", err: bad},
		&fakeAnalyst{analystType: contractx.AnalystTypeTrend, slotKey: "trend_analysis", err: bad},
	}
	group, err := NewGroup(analysts, GroupConfig{})
	if err != nil {
		t.Fatalf("NewGroup() error = %v", err)
	}

	session := statex.NewSessionState("session-1", time.Now().UTC())
	session.BeginTurn("q", time.Now().UTC())

	_, err = group.Run(context.Background(), session, "q")
	if !errors.Is(err, contractx.ErrGroupDegraded) {
		t.Fatalf("expected ErrGroupDegraded, got %v", err)
	}
}

func TestRunFailureFractionThreshold(t *testing.T) {
	t.Parallel()

	bad := errors.New("model down")
	analysts := []contractx.Analyst{
		&fakeAnalyst{analystType: contractx.AnalystTypeInternalData, slotKey: "internal_data", err: bad},
		&fakeAnalyst{analystType: contractx.AnalystTypeMarketResearch, slotKey: "market_research", err: bad},
		&fakeAnalyst{analystType: contractx.AnalystTypeTrend, slotKey: "trend_analysis", text: "trend findings"},
	}
	group, err := NewGroup(analysts, GroupConfig{MaxFailureFraction: 0.5})
	if err != nil {
		t.Fatalf("NewGroup() error = %v", err)
	}

	session := statex.NewSessionState("session-1", time.Now().UTC())
	session.BeginTurn("q", time.Now().UTC())

	_, err = group.Run(context.Background(), session, "q")
	if !errors.Is(err, contractx.ErrGroupDegraded) {
		t.Fatalf("expected ErrGroupDegraded at 2/3 failures over 0.5 threshold, got %v", err)
	}
}
