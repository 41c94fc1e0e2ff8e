package directornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Trivium-Parallel-Research-Agent/agent/contract"
	statex "github.com/tanpawarit/Trivium-Parallel-Research-Agent/agent/state"
)

// ResearchGroup is the fan-out barrier: it runs every analyst against the
// question and returns one terminal outcome per member.
type ResearchGroup interface {
	Run(ctx context.Context, session *statex.SessionState, question string) ([]contractx.Outcome, error)
}

func RunResearch(
	ctx context.Context,
	in *GraphState,
	group ResearchGroup,
) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}
	if group == nil {
		return nil, fmt.Errorf("%w: research group is nil", contractx.ErrValidation)
	}

	outcomes, err := group.Run(ctx, in.Session, in.Question)
	if err != nil {
		return nil, err
	}
	in.Outcomes = outcomes
	return in, nil
}
