package state

import (
	"errors"
	"testing"
	"time"
)

func testNow() time.Time {
	return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
}

func TestClaimSlotsRejectsConflictingOwner(t *testing.T) {
	t.Parallel()

	st := NewSessionState("session-1", testNow())
	if err := st.ClaimSlots(map[string]string{"trend_analysis": "trend"}); err != nil {
		t.Fatalf("ClaimSlots() error = %v", err)
	}

	err := st.ClaimSlots(map[string]string{"trend_analysis": "market_research"})
	if !errors.Is(err, ErrSlotClaimed) {
		t.Fatalf("expected ErrSlotClaimed, got %v", err)
	}
}

func TestClaimSlotsIdempotentForSameOwner(t *testing.T) {
	t.Parallel()

	st := NewSessionState("session-1", testNow())
	claims := map[string]string{
		"internal_data":   "internal_data",
		"market_research": "market_research",
	}
	if err := st.ClaimSlots(claims); err != nil {
		t.Fatalf("ClaimSlots() error = %v", err)
	}
	if err := st.ClaimSlots(claims); err != nil {
		t.Fatalf("re-claim by same owners must succeed, got %v", err)
	}
}

func TestClaimSlotsRejectsEmptyKey(t *testing.T) {
	t.Parallel()

	st := NewSessionState("session-1", testNow())
	err := st.ClaimSlots(map[string]string{"  ": "internal_data"})
	if !errors.Is(err, ErrEmptySlotKey) {
		t.Fatalf("expected ErrEmptySlotKey, got %v", err)
	}
}

func TestWriteRequiresClaimAndOwnership(t *testing.T) {
	t.Parallel()

	st := NewSessionState("session-1", testNow())
	st.BeginTurn("q1", testNow())

	err := st.Write("internal_data", "internal_data", "findings", testNow())
	if !errors.Is(err, ErrSlotNotClaimed) {
		t.Fatalf("expected ErrSlotNotClaimed, got %v", err)
	}

	if err := st.ClaimSlots(map[string]string{"internal_data": "internal_data"}); err != nil {
		t.Fatalf("ClaimSlots() error = %v", err)
	}

	err = st.Write("internal_data", "trend", "findings", testNow())
	if !errors.Is(err, ErrSlotOwnership) {
		t.Fatalf("expected ErrSlotOwnership, got %v", err)
	}

	if err := st.Write("internal_data", "internal_data", "findings", testNow()); err != nil {
		t.Fatalf("owner write error = %v", err)
	}
}

func TestWriteOncePerTurn(t *testing.T) {
	t.Parallel()

	st := NewSessionState("session-1", testNow())
	if err := st.ClaimSlots(map[string]string{"internal_data": "internal_data"}); err != nil {
		t.Fatalf("ClaimSlots() error = %v", err)
	}
	st.BeginTurn("q1", testNow())

	if err := st.Write("internal_data", "internal_data", "first", testNow()); err != nil {
		t.Fatalf("first write error = %v", err)
	}
	err := st.Write("internal_data", "internal_data", "second", testNow())
	if !errors.Is(err, ErrSlotWritten) {
		t.Fatalf("expected ErrSlotWritten, got %v", err)
	}

	if got := st.ReadAll()["internal_data"]; got != "first" {
		t.Fatalf("slot value overwritten: %q", got)
	}
}

func TestWriteWithoutTurnFails(t *testing.T) {
	t.Parallel()

	st := NewSessionState("session-1", testNow())
	if err := st.ClaimSlots(map[string]string{"internal_data": "internal_data"}); err != nil {
		t.Fatalf("ClaimSlots() error = %v", err)
	}

	err := st.Write("internal_data", "internal_data", "findings", testNow())
	if !errors.Is(err, ErrNoTurn) {
		t.Fatalf("expected ErrNoTurn, got %v", err)
	}
}

func TestNewTurnResetsSlots(t *testing.T) {
	t.Parallel()

	st := NewSessionState("session-1", testNow())
	if err := st.ClaimSlots(map[string]string{"internal_data": "internal_data"}); err != nil {
		t.Fatalf("ClaimSlots() error = %v", err)
	}

	st.BeginTurn("q1", testNow())
	if err := st.Write("internal_data", "internal_data", "turn one findings", testNow()); err != nil {
		t.Fatalf("write error = %v", err)
	}

	st.BeginTurn("q2", testNow())
	if got := len(st.ReadAll()); got != 0 {
		t.Fatalf("new turn must start with empty slots, got %d", got)
	}

	// Same owner writes the same key again in the new turn.
	if err := st.Write("internal_data", "internal_data", "turn two findings", testNow()); err != nil {
		t.Fatalf("write in new turn error = %v", err)
	}
	if st.Turns[0].Slots["internal_data"].Value != "turn one findings" {
		t.Fatalf("earlier turn slot mutated")
	}
}

func TestPriorBriefsExcludesCurrentTurn(t *testing.T) {
	t.Parallel()

	st := NewSessionState("session-1", testNow())

	st.BeginTurn("q1", testNow())
	if err := st.SetBrief("brief one"); err != nil {
		t.Fatalf("SetBrief() error = %v", err)
	}

	st.BeginTurn("q2", testNow())
	if err := st.SetBrief("brief two"); err != nil {
		t.Fatalf("SetBrief() error = %v", err)
	}

	st.BeginTurn("q3", testNow())
	briefs := st.PriorBriefs()
	if len(briefs) != 2 || briefs[0] != "brief one" || briefs[1] != "brief two" {
		t.Fatalf("unexpected prior briefs: %v", briefs)
	}
}

func TestValidateRejectsCorruptTurnSequence(t *testing.T) {
	t.Parallel()

	st := NewSessionState("session-1", testNow())
	st.BeginTurn("q1", testNow())
	st.Turns[0].Seq = 7

	if err := st.Validate(); err == nil {
		t.Fatal("expected validation error for corrupt turn sequence")
	}
}

func TestValidateRejectsEmptySessionID(t *testing.T) {
	t.Parallel()

	st := NewSessionState("  ", testNow())
	if err := st.Validate(); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}
