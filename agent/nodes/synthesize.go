package directornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Trivium-Parallel-Research-Agent/agent/contract"
)

// Synthesize folds whatever the fan-out produced into a single brief. It runs
// even when some analysts failed: their slot keys travel to the synthesizer
// as unavailable perspectives instead of aborting the turn.
func Synthesize(
	ctx context.Context,
	in *GraphState,
	synthesizer contractx.Synthesizer,
) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}
	if synthesizer == nil {
		return nil, fmt.Errorf("%w: synthesizer is nil", contractx.ErrValidation)
	}

	var unavailable []string
	for _, outcome := range in.Outcomes {
		if outcome.Err != nil {
			unavailable = append(unavailable, outcome.SlotKey)
		}
	}

	brief, err := synthesizer.Synthesize(ctx, contractx.SynthesisInput{
		Question:    in.Question,
		Sections:    in.Session.ReadAll(),
		Unavailable: unavailable,
		PriorBriefs: in.Session.PriorBriefs(),
	})
	if err != nil {
		return nil, err
	}

	if err := in.Session.SetBrief(brief); err != nil {
		return nil, err
	}
	in.Brief = brief
	return in, nil
}
