package director

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"
	contractx "github.com/tanpawarit/Trivium-Parallel-Research-Agent/agent/contract"
	nodex "github.com/tanpawarit/Trivium-Parallel-Research-Agent/agent/nodes"
	statex "github.com/tanpawarit/Trivium-Parallel-Research-Agent/agent/state"
)

var (
	ErrInvalidQuestion = nodex.ErrInvalidQuestion
	ErrInvalidSession  = nodex.ErrInvalidSession
)

// Director owns one research turn end to end: it fans the question out to the
// analyst group, waits at the barrier, synthesizes the brief, and persists
// the session.
type Director struct {
	store     statex.Store
	models    contractx.Registry
	group     nodex.ResearchGroup
	publisher contractx.BriefPublisher

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	now func() time.Time
}

func New(
	store statex.Store,
	models contractx.Registry,
	group nodex.ResearchGroup,
	publisher contractx.BriefPublisher,
) (*Director, error) {
	if store == nil {
		return nil, errors.New("state store is required")
	}
	if models == nil {
		return nil, errors.New("model registry is required")
	}
	if group == nil {
		return nil, errors.New("research group is required")
	}

	d := &Director{
		store:     store,
		models:    models,
		group:     group,
		publisher: publisher,
		now:       time.Now,
	}

	graphRunner, err := d.compileHandleQueryGraph(context.Background())
	if err != nil {
		return nil, err
	}
	d.graphRunner = graphRunner

	return d, nil
}

func (d *Director) HandleQuery(ctx context.Context, sessionID string, question string) (string, error) {
	out, err := d.graphRunner.Invoke(ctx, nodex.GraphInput{
		SessionID: sessionID,
		Question:  question,
	})
	if err != nil {
		return "", err
	}
	return out.Reply, nil
}
