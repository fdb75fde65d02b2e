package model

import "github.com/google/uuid"

// StartSessionRequest is the payload for loading a topic into a new quiz session.
type StartSessionRequest struct {
	TopicID uuid.UUID `json:"topic_id" binding:"required"`
	Mode    string    `json:"mode" binding:"omitempty,oneof=sequential random"`
}

// CommitAnswerRequest submits the selected option for the current question.
type CommitAnswerRequest struct {
	Option string `json:"option" binding:"required,max=2000"`
}

// JumpRequest moves to a 1-based question number. Out-of-range numbers are
// accepted by binding and ignored by the session.
type JumpRequest struct {
	Number int `json:"number"`
}

// ChangeModeRequest switches the presentation order.
type ChangeModeRequest struct {
	Mode string `json:"mode" binding:"required,oneof=sequential random"`
}

// VerifyAdminRequest checks a candidate admin secret.
type VerifyAdminRequest struct {
	Secret string `json:"secret" binding:"required,max=512"`
}

// AnswerEvent is one committed answer, queued for the answer log.
type AnswerEvent struct {
	SessionID     string    `json:"session_id"`
	TopicID       uuid.UUID `json:"topic_id"`
	QuestionIndex int       `json:"question_index"`
	Selected      string    `json:"selected"`
	Correct       bool      `json:"correct"`
	AnsweredAt    int64     `json:"answered_at"`
}
