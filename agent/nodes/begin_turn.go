package directornode

import (
	"fmt"

	contractx "github.com/tanpawarit/Trivium-Parallel-Research-Agent/agent/contract"
)

func BeginTurn(in *GraphState) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}

	in.Session.BeginTurn(in.Question, in.Now)
	return in, nil
}
