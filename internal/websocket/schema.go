package websocket

import "github.com/saitama-on/AssessmentAssist/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionValidate Action = "validate"
	ActionPing     Action = "ping"
)

// RequestPayload is the single message shape the editor client sends.
// Question is only read for ActionValidate.
type RequestPayload struct {
	Action   Action                         `json:"action"`
	Question *model.QuestionDocumentRequest `json:"question,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventResult Event = "result"
	EventError  Event = "error"
	EventPong   Event = "pong"
)

// ResultResponse carries the draft validator's verdict for one candidate
// document.
type ResultResponse struct {
	Event   Event    `json:"event"`
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// ErrorResponse reports a protocol-level failure (bad payload, unknown
// action).
type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

// PongResponse answers a keepalive ping.
type PongResponse struct {
	Event Event `json:"event"`
}
