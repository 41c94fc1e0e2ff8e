package state

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

var (
	ErrSlotNotClaimed = errors.New("slot key has no registered owner")
	ErrSlotOwnership  = errors.New("caller does not own slot key")
	ErrSlotWritten    = errors.New("slot already written this turn")
	ErrSlotClaimed    = errors.New("slot key already claimed by another owner")
	ErrNoTurn         = errors.New("no research turn in progress")
	ErrEmptySlotKey   = errors.New("slot key is empty")
)

// Slot holds one analyst's final output for a turn. Immutable once written.
type Slot struct {
	Value     string    `json:"value"`
	Author    string    `json:"author"`
	WrittenAt time.Time `json:"written_at"`
}

// Turn is one dispatched question and the slots its fan-out group produced.
type Turn struct {
	Seq       int             `json:"seq"`
	Question  string          `json:"question"`
	Slots     map[string]Slot `json:"slots,omitempty"`
	Brief     string          `json:"brief,omitempty"`
	StartedAt time.Time       `json:"started_at"`
}

// SessionState is the shared state store for one chat session. Each turn's
// slots are written exactly once, by their owning analyst, and read back only
// by the synthesizer after the barrier. Earlier turns stay available so later
// questions can reference earlier briefs.
//
// Ownership claims are process-local runtime state: the fan-out group
// re-registers them each turn, so they are not persisted.
type SessionState struct {
	SessionID string    `json:"session_id"`
	Turns     []*Turn   `json:"turns,omitempty"`
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`

	mu     sync.Mutex
	owners map[string]string
}

func NewSessionState(sessionID string, now time.Time) *SessionState {
	return &SessionState{
		SessionID: sessionID,
		Version:   1,
		UpdatedAt: now.UTC(),
	}
}

func (s *SessionState) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

// ClaimSlots registers the slot ownership map for the upcoming turn. A key
// already held by a different owner is a configuration fault, reported before
// any analyst runs.
func (s *SessionState) ClaimSlots(claims map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.owners == nil {
		s.owners = make(map[string]string, len(claims))
	}
	for key, owner := range claims {
		if strings.TrimSpace(key) == "" {
			return ErrEmptySlotKey
		}
		if held, ok := s.owners[key]; ok && held != owner {
			return fmt.Errorf("%w: key=%s held=%s claimant=%s", ErrSlotClaimed, key, held, owner)
		}
	}
	for key, owner := range claims {
		s.owners[key] = owner
	}
	return nil
}

// BeginTurn opens a new turn for the question. Slots of previous turns are
// left untouched.
func (s *SessionState) BeginTurn(question string, now time.Time) *Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	turn := &Turn{
		Seq:       len(s.Turns) + 1,
		Question:  question,
		Slots:     make(map[string]Slot, 4),
		StartedAt: now.UTC(),
	}
	s.Turns = append(s.Turns, turn)
	return turn
}

func (s *SessionState) CurrentTurn() *Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Turns) == 0 {
		return nil
	}
	return s.Turns[len(s.Turns)-1]
}

// Write records an analyst's final output into its slot for the current turn.
// It fails when the key has no registered owner, the author is not that
// owner, or the slot already holds a value this turn.
func (s *SessionState) Write(slotKey, author, value string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(slotKey) == "" {
		return ErrEmptySlotKey
	}
	if len(s.Turns) == 0 {
		return ErrNoTurn
	}

	owner, ok := s.owners[slotKey]
	if !ok {
		return fmt.Errorf("%w: key=%s", ErrSlotNotClaimed, slotKey)
	}
	if owner != author {
		return fmt.Errorf("%w: key=%s owner=%s author=%s", ErrSlotOwnership, slotKey, owner, author)
	}

	turn := s.Turns[len(s.Turns)-1]
	if turn.Slots == nil {
		turn.Slots = make(map[string]Slot, 4)
	}
	if _, taken := turn.Slots[slotKey]; taken {
		return fmt.Errorf("%w: key=%s turn=%d", ErrSlotWritten, slotKey, turn.Seq)
	}

	turn.Slots[slotKey] = Slot{
		Value:     value,
		Author:    author,
		WrittenAt: now.UTC(),
	}
	return nil
}

// ReadAll returns a snapshot of the current turn's populated slots.
func (s *SessionState) ReadAll() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]string)
	if len(s.Turns) == 0 {
		return out
	}
	for key, slot := range s.Turns[len(s.Turns)-1].Slots {
		out[key] = slot.Value
	}
	return out
}

// SetBrief stores the synthesized answer on the current turn.
func (s *SessionState) SetBrief(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Turns) == 0 {
		return ErrNoTurn
	}
	s.Turns[len(s.Turns)-1].Brief = text
	return nil
}

// PriorBriefs returns synthesized answers of all turns before the current
// one, oldest first.
func (s *SessionState) PriorBriefs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.Turns) < 2 {
		return nil
	}
	briefs := make([]string, 0, len(s.Turns)-1)
	for _, turn := range s.Turns[:len(s.Turns)-1] {
		if strings.TrimSpace(turn.Brief) != "" {
			briefs = append(briefs, turn.Brief)
		}
	}
	return briefs
}

func (s *SessionState) Validate() error {
	if strings.TrimSpace(s.SessionID) == "" {
		return ErrInvalidSession
	}
	for i, turn := range s.Turns {
		if turn == nil {
			return fmt.Errorf("turn %d is nil", i+1)
		}
		if turn.Seq != i+1 {
			return fmt.Errorf("turn sequence corrupt: index=%d seq=%d", i, turn.Seq)
		}
	}
	return nil
}
