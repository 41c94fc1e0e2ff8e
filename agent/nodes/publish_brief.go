package directornode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Trivium-Parallel-Research-Agent/agent/contract"
)

// PublishBrief hands the finished brief to the configured publisher. Delivery
// is best effort: a publish failure is logged, not returned, because the
// brief is already persisted in session state.
func PublishBrief(
	ctx context.Context,
	in *GraphState,
	publisher contractx.BriefPublisher,
) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph session is nil", contractx.ErrValidation)
	}
	if publisher == nil {
		return in, nil
	}

	brief := contractx.Brief{
		SessionID:   in.SessionID,
		Question:    in.Question,
		Text:        in.Brief,
		GeneratedAt: in.Now,
	}
	if err := publisher.Publish(ctx, brief); err != nil {
		log.Warn().Str("session_id", in.SessionID).Err(err).Msg("brief publish failed")
	}
	return in, nil
}
