package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/internal_data.txt
	internalDataRaw string

	//go:embed template/market_research.txt
	marketResearchRaw string

	//go:embed template/trend.txt
	trendRaw string

	//go:embed template/synthesizer.txt
	synthesizerRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	InternalData   string
	MarketResearch string
	Trend          string
	Synthesizer    string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
// Safe to call concurrently; the embed is compile-time and trimming is cheap.
func LoadPromptSet() PromptSet {
	return PromptSet{
		InternalData:   strings.TrimSpace(internalDataRaw),
		MarketResearch: strings.TrimSpace(marketResearchRaw),
		Trend:          strings.TrimSpace(trendRaw),
		Synthesizer:    strings.TrimSpace(synthesizerRaw),
	}
}
