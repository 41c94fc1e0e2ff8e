package contract

import "context"

// Analyst is one fan-out worker. Research answers the question using only the
// analyst's own capability set and returns its final text.
type Analyst interface {
	Type() AnalystType
	SlotKey() string
	Research(ctx context.Context, question string) (string, error)
}

type Synthesizer interface {
	Synthesize(ctx context.Context, in SynthesisInput) (string, error)
}

type Registry interface {
	Analysts() []Analyst
	Synthesizer() Synthesizer
}

// ToolGateway executes one tool request on behalf of an analyst. The envelope
// carries both success and failure; the gateway never returns a Go error to
// the calling analyst loop.
type ToolGateway interface {
	Execute(ctx context.Context, analyst AnalystType, req ToolRequest) Envelope
}

type BriefPublisher interface {
	Publish(ctx context.Context, brief Brief) error
}
