package analyst

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Trivium-Parallel-Research-Agent/agent/contract"
	llmx "github.com/tanpawarit/Trivium-Parallel-Research-Agent/agent/llm"
	promptx "github.com/tanpawarit/Trivium-Parallel-Research-Agent/agent/prompt"
	toolx "github.com/tanpawarit/Trivium-Parallel-Research-Agent/agent/tool"
)

// Slot keys the analysts write their findings under. One key per analyst,
// fixed at construction time.
const (
	SlotInternalData   = "internal_data"
	SlotMarketResearch = "market_research"
	SlotTrendAnalysis  = "trend_analysis"
)

// Registry owns the full roster for one deployment: the three research
// analysts plus the synthesizer that folds their findings into a brief.
type Registry struct {
	analysts    []contractx.Analyst
	synthesizer contractx.Synthesizer
}

var _ contractx.Registry = (*Registry)(nil)

// NewRegistry builds every model-backed component up front so that a bad
// credential or missing prompt fails at startup, not mid-turn.
func NewRegistry(
	ctx context.Context,
	llmCfg llmx.Config,
	gateway contractx.ToolGateway,
	cfg Config,
) (*Registry, error) {
	if err := llmCfg.Validate(); err != nil {
		return nil, err
	}

	prompts := promptx.LoadPromptSet()

	specs := []struct {
		analystType contractx.AnalystType
		slotKey     string
		prompt      string
	}{
		{contractx.AnalystTypeInternalData, SlotInternalData, prompts.InternalData},
		{contractx.AnalystTypeMarketResearch, SlotMarketResearch, prompts.MarketResearch},
		{contractx.AnalystTypeTrend, SlotTrendAnalysis, prompts.Trend},
	}

	analysts := make([]contractx.Analyst, 0, len(specs))
	for _, spec := range specs {
		modelCfg := llmCfg.OpenRouterFor(llmx.RoleFor(spec.analystType))
		chatModel, err := modelCfg.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("build chat model for analyst=%s: %w", spec.analystType, err)
		}

		a, err := newAnalyst(
			spec.analystType,
			spec.slotKey,
			chatModel,
			toolx.InfosFor(spec.analystType),
			gateway,
			spec.prompt,
			cfg,
		)
		if err != nil {
			return nil, err
		}
		analysts = append(analysts, a)
	}

	synthCfg := llmCfg.OpenRouterFor(llmx.RoleSynthesizer)
	synthModel, err := synthCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("build chat model for synthesizer: %w", err)
	}
	synth, err := newSynthesizer(ctx, synthModel, prompts.Synthesizer)
	if err != nil {
		return nil, err
	}

	return &Registry{
		analysts:    analysts,
		synthesizer: synth,
	}, nil
}

func (r *Registry) Analysts() []contractx.Analyst {
	return r.analysts
}

func (r *Registry) Synthesizer() contractx.Synthesizer {
	return r.synthesizer
}
