package director

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/Trivium-Parallel-Research-Agent/agent/contract"
	statex "github.com/tanpawarit/Trivium-Parallel-Research-Agent/agent/state"
	logx "github.com/tanpawarit/Trivium-Parallel-Research-Agent/pkg/logger"
)

// GroupConfig bounds one fan-out run. AnalystTimeout caps each member
// individually; GroupTimeout caps the whole barrier wait. MaxFailureFraction
// is the share of members allowed to fail before the turn is declared
// degraded beyond use; 1.0 tolerates everything short of total failure.
type GroupConfig struct {
	AnalystTimeout     time.Duration `envconfig:"ANALYST_TIMEOUT" split_words:"true" default:"120s"`
	GroupTimeout       time.Duration `envconfig:"GROUP_TIMEOUT" split_words:"true" default:"180s"`
	MaxFailureFraction float64       `envconfig:"MAX_FAILURE_FRACTION" split_words:"true" default:"1.0"`
}

func (c GroupConfig) withDefaults() GroupConfig {
	if c.AnalystTimeout <= 0 {
		c.AnalystTimeout = 120 * time.Second
	}
	if c.GroupTimeout <= 0 {
		c.GroupTimeout = 180 * time.Second
	}
	if c.MaxFailureFraction <= 0 || c.MaxFailureFraction > 1 {
		c.MaxFailureFraction = 1.0
	}
	return c
}

// Group runs a fixed set of analysts concurrently against one question and
// releases only when every member has reached a terminal state. Members are
// isolated: one failing, timing out, or panicking never cancels a sibling.
type Group struct {
	analysts []contractx.Analyst
	cfg      GroupConfig
	log      zerolog.Logger
	now      func() time.Time
}

// NewGroup validates the roster up front: at least one member, no duplicate
// analyst types, no two members claiming the same slot key.
func NewGroup(analysts []contractx.Analyst, cfg GroupConfig) (*Group, error) {
	if len(analysts) == 0 {
		return nil, fmt.Errorf("%w: fan-out group needs at least one analyst", contractx.ErrValidation)
	}

	seenTypes := make(map[contractx.AnalystType]struct{}, len(analysts))
	seenSlots := make(map[string]contractx.AnalystType, len(analysts))
	for _, a := range analysts {
		if a == nil {
			return nil, fmt.Errorf("%w: nil analyst in group", contractx.ErrValidation)
		}
		if _, dup := seenTypes[a.Type()]; dup {
			return nil, fmt.Errorf("%w: duplicate analyst type %s", contractx.ErrValidation, a.Type())
		}
		seenTypes[a.Type()] = struct{}{}

		if holder, dup := seenSlots[a.SlotKey()]; dup {
			return nil, fmt.Errorf("%w: slot key %q claimed by both %s and %s",
				contractx.ErrSlotConflict, a.SlotKey(), holder, a.Type())
		}
		seenSlots[a.SlotKey()] = a.Type()
	}

	return &Group{
		analysts: analysts,
		cfg:      cfg.withDefaults(),
		log:      logx.Component("fanout"),
		now:      time.Now,
	}, nil
}

// Run dispatches the question to every analyst in parallel, writes each
// result into the analyst's claimed slot, and blocks until all members are
// terminal or the group timer fires. The returned outcomes cover every
// member; a member still running at the group deadline is recorded as timed
// out and its context canceled.
func (g *Group) Run(ctx context.Context, session *statex.SessionState, question string) ([]contractx.Outcome, error) {
	claims := make(map[string]string, len(g.analysts))
	for _, a := range g.analysts {
		claims[a.SlotKey()] = string(a.Type())
	}
	if err := session.ClaimSlots(claims); err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrSlotConflict, err)
	}

	groupCtx, cancel := context.WithTimeout(ctx, g.cfg.GroupTimeout)
	defer cancel()

	results := make(chan contractx.Outcome, len(g.analysts))
	var wg sync.WaitGroup
	for _, a := range g.analysts {
		wg.Add(1)
		go func(a contractx.Analyst) {
			defer wg.Done()
			results <- g.runOne(groupCtx, a, session, question)
		}(a)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	outcomes := make([]contractx.Outcome, 0, len(g.analysts))
	for outcome := range results {
		if outcome.Err != nil {
			g.log.Warn().
				Str("analyst", string(outcome.Analyst)).
				Err(outcome.Err).
				Msg("analyst finished in failure")
		} else {
			g.log.Debug().
				Str("analyst", string(outcome.Analyst)).
				Str("slot", outcome.SlotKey).
				Msg("analyst slot written")
		}
		outcomes = append(outcomes, outcome)
	}

	failed := 0
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			failed++
		}
	}
	if failed == len(outcomes) {
		return outcomes, fmt.Errorf("%w: all %d analysts failed", contractx.ErrGroupDegraded, failed)
	}
	if frac := float64(failed) / float64(len(outcomes)); frac > g.cfg.MaxFailureFraction {
		return outcomes, fmt.Errorf("%w: %d of %d analysts failed", contractx.ErrGroupDegraded, failed, len(outcomes))
	}
	return outcomes, nil
}

// runOne executes a single analyst under its own deadline and records the
// terminal state. A panic inside an analyst is contained here so the rest of
// the group keeps running.
func (g *Group) runOne(ctx context.Context, a contractx.Analyst, session *statex.SessionState, question string) (outcome contractx.Outcome) {
	outcome = contractx.Outcome{Analyst: a.Type(), SlotKey: a.SlotKey()}

	defer func() {
		if r := recover(); r != nil {
			outcome.Err = fmt.Errorf("%w: analyst=%s panicked: %v", contractx.ErrModelInvoke, a.Type(), r)
		}
	}()

	analystCtx, cancel := context.WithTimeout(ctx, g.cfg.AnalystTimeout)
	defer cancel()

	started := g.now()
	text, err := a.Research(analystCtx, question)
	elapsed := g.now().Sub(started)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			outcome.Err = fmt.Errorf("%w: analyst=%s after %s", contractx.ErrAnalystTimeout, a.Type(), elapsed.Round(time.Millisecond))
			return outcome
		}
		outcome.Err = err
		return outcome
	}

	if err := session.Write(a.SlotKey(), string(a.Type()), text, g.now()); err != nil {
		outcome.Err = err
		return outcome
	}

	g.log.Info().
		Str("analyst", string(a.Type())).
		Dur("elapsed", elapsed).
		Msg("research complete")
	return outcome
}
