package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Trivium-Parallel-Research-Agent/agent/contract"
	openrouterx "github.com/tanpawarit/Trivium-Parallel-Research-Agent/pkg/openrouter"
)

// Role identifies which pipeline stage a model serves. The synthesizer is a
// role of its own, distinct from the fan-out analysts.
type Role string

const (
	RoleSynthesizer Role = "synthesizer"
)

func RoleFor(analyst contractx.AnalystType) Role {
	return Role(analyst)
}

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"60s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	InternalDataModel   string  `envconfig:"INTERNAL_DATA_MODEL" split_words:"true"`
	MarketResearchModel string  `envconfig:"MARKET_RESEARCH_MODEL" split_words:"true"`
	TrendModel          string  `envconfig:"TREND_MODEL" split_words:"true"`
	SynthesizerModel    string  `envconfig:"SYNTHESIZER_MODEL" split_words:"true"`
	SynthesizerTemp     float32 `envconfig:"SYNTHESIZER_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

// OpenRouterFor resolves the model config for one role. The market research
// analyst always gets the web-search variant: external grounding is its
// entire capability set.
func (c Config) OpenRouterFor(role Role) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	switch role {
	case RoleFor(contractx.AnalystTypeInternalData):
		if v := strings.TrimSpace(c.InternalDataModel); v != "" {
			modelName = v
		}
	case RoleFor(contractx.AnalystTypeMarketResearch):
		if v := strings.TrimSpace(c.MarketResearchModel); v != "" {
			modelName = v
		}
	case RoleFor(contractx.AnalystTypeTrend):
		if v := strings.TrimSpace(c.TrendModel); v != "" {
			modelName = v
		}
	case RoleSynthesizer:
		if v := strings.TrimSpace(c.SynthesizerModel); v != "" {
			modelName = v
		}
		if c.SynthesizerTemp >= 0 {
			temp = c.SynthesizerTemp
		}
	}

	maxCompletionToken := c.MaxCompletionToken
	cfg := openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}

	if role == RoleFor(contractx.AnalystTypeMarketResearch) {
		cfg = cfg.WithWebSearch()
	}
	return cfg
}
