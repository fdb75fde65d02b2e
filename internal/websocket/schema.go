package websocket

import "github.com/stemsi/quizdeck/internal/quiz"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionSnapshot Action = "snapshot"
	ActionCommit   Action = "commit"
	ActionNext     Action = "next"
	ActionPrevious Action = "previous"
	ActionJump     Action = "jump"
	ActionMode     Action = "mode"
	ActionEnd      Action = "end"
	ActionPing     Action = "ping"
)

// RequestPayload is a single client message. Only the fields of the given
// action are read.
type RequestPayload struct {
	Action Action `json:"action"`
	Option string `json:"option,omitempty"`
	Number int    `json:"number,omitempty"`
	Mode   string `json:"mode,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventSnapshot Event = "snapshot"
	EventOutcome  Event = "outcome"
	EventEnded    Event = "ended"
	EventError    Event = "error"
	EventPong     Event = "pong"
)

type SnapshotResponse struct {
	Event    Event         `json:"event"`
	Snapshot quiz.Snapshot `json:"snapshot"`
}

// OutcomeResponse answers every state-changing action. Applied is false for
// no-ops such as next on the last question or a second answer.
type OutcomeResponse struct {
	Event    Event         `json:"event"`
	Action   Action        `json:"action"`
	Applied  bool          `json:"applied"`
	Correct  *bool         `json:"correct,omitempty"`
	Snapshot quiz.Snapshot `json:"snapshot"`
}

type EndedResponse struct {
	Event Event `json:"event"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
