package directornode

import (
	"errors"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Trivium-Parallel-Research-Agent/agent/contract"
	statex "github.com/tanpawarit/Trivium-Parallel-Research-Agent/agent/state"
)

var (
	ErrInvalidQuestion = errors.New("question is empty")
	ErrInvalidSession  = errors.New("session id is empty")
)

type GraphInput struct {
	SessionID string
	Question  string
}

type GraphOutput struct {
	Reply string
}

type GraphState struct {
	SessionID string
	Question  string
	Now       time.Time

	Session  *statex.SessionState
	Outcomes []contractx.Outcome

	Brief string
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	question := strings.TrimSpace(in.Question)
	if question == "" {
		return nil, ErrInvalidQuestion
	}

	return &GraphState{
		SessionID: sessionID,
		Question:  question,
		Now:       nowFn().UTC(),
	}, nil
}
