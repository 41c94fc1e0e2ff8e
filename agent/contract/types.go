package contract

import "time"

type AnalystType string

const (
	AnalystTypeInternalData   AnalystType = "internal_data"
	AnalystTypeMarketResearch AnalystType = "market_research"
	AnalystTypeTrend          AnalystType = "trend"
)

type EnvelopeStatus string

const (
	EnvelopeSuccess EnvelopeStatus = "success"
	EnvelopeError   EnvelopeStatus = "error"
)

// Row is one warehouse result row, column name to scalar value. Non-text,
// non-number scalars (dates) are serialized to ISO-8601 text before they
// cross the tool boundary.
type Row map[string]any

// Envelope is the tagged outcome of a query tool call. Tools always return
// an envelope, never a fault.
type Envelope struct {
	Status  EnvelopeStatus `json:"status"`
	Data    []Row          `json:"data,omitempty"`
	Message string         `json:"message,omitempty"`
}

func SuccessEnvelope(rows []Row) Envelope {
	return Envelope{Status: EnvelopeSuccess, Data: rows}
}

func EmptyEnvelope(message string) Envelope {
	return Envelope{Status: EnvelopeSuccess, Data: []Row{}, Message: message}
}

func ErrorEnvelope(message string) Envelope {
	return Envelope{Status: EnvelopeError, Message: message}
}

type ToolRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

// Outcome is one analyst's terminal-state record for a turn. The barrier
// collects one per group member; a nil Err means the analyst wrote its slot.
type Outcome struct {
	Analyst AnalystType
	SlotKey string
	Err     error
}

// SynthesisInput carries everything the synthesizer may read: the question,
// the populated slots of the current turn, and one note per perspective that
// produced no slot.
type SynthesisInput struct {
	Question    string            `json:"question"`
	Sections    map[string]string `json:"sections"`
	Unavailable []string          `json:"unavailable,omitempty"`
	PriorBriefs []string          `json:"prior_briefs,omitempty"`
}

type Brief struct {
	SessionID   string    `json:"session_id"`
	Question    string    `json:"question"`
	Text        string    `json:"text"`
	GeneratedAt time.Time `json:"generated_at"`
}
