package analyst

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/Trivium-Parallel-Research-Agent/agent/contract"
	logx "github.com/tanpawarit/Trivium-Parallel-Research-Agent/pkg/logger"
)

type synthesizerImpl struct {
	runner compose.Runnable[map[string]any, *schema.Message]
	log    zerolog.Logger
}

func newSynthesizer(ctx context.Context, chatModel einomodel.BaseChatModel, systemPrompt string) (*synthesizerImpl, error) {
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: synthesizer", contractx.ErrPromptMissing)
	}

	runner, err := compileSynthesisGraph(ctx, chatModel, systemPrompt)
	if err != nil {
		return nil, err
	}
	return &synthesizerImpl{
		runner: runner,
		log:    logx.Component("synthesizer"),
	}, nil
}

// Synthesize composes the final brief from whatever sections the analysts
// produced. Missing sections are named in the payload so the model can note
// them rather than fail on them.
func (s *synthesizerImpl) Synthesize(ctx context.Context, input contractx.SynthesisInput) (string, error) {
	if strings.TrimSpace(input.Question) == "" {
		return "", fmt.Errorf("%w: question is required", contractx.ErrValidation)
	}
	if len(input.Sections) == 0 {
		return "", fmt.Errorf("%w: no research sections available", contractx.ErrSynthesis)
	}

	payload, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("%w: marshal synthesis input: %v", contractx.ErrSynthesis, err)
	}

	msg, err := s.runner.Invoke(ctx, map[string]any{"input": string(payload)})
	if err != nil {
		return "", fmt.Errorf("%w: %v", contractx.ErrSynthesis, err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", fmt.Errorf("%w: model returned empty brief", contractx.ErrSynthesis)
	}

	s.log.Debug().
		Int("sections", len(input.Sections)).
		Int("unavailable", len(input.Unavailable)).
		Msg("brief synthesized")
	return strings.TrimSpace(msg.Content), nil
}

func compileSynthesisGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	systemPrompt string,
) (compose.Runnable[map[string]any, *schema.Message], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage("{input}"),
	)

	graph := compose.NewGraph[map[string]any, *schema.Message]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add synthesis prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add synthesis model node: %w", err)
	}
	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add synthesis edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add synthesis edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add synthesis edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("synthesizer.brief_graph"))
	if err != nil {
		return nil, fmt.Errorf("compile synthesis graph: %w", err)
	}
	return runner, nil
}
