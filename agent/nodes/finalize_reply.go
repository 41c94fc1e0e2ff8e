package directornode

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Trivium-Parallel-Research-Agent/agent/contract"
)

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	reply := strings.TrimSpace(in.Brief)
	if reply == "" {
		return GraphOutput{}, fmt.Errorf("%w: synthesizer returned empty brief", contractx.ErrSynthesis)
	}
	return GraphOutput{Reply: reply}, nil
}
