package model

import (
	"time"

	"github.com/google/uuid"
)

// Topic is a named, persisted set of questions.
type Topic struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// TopicStats aggregates committed answers recorded for a topic.
type TopicStats struct {
	TopicID uuid.UUID `json:"topic_id"`
	Answers int       `json:"answers"`
	Correct int       `json:"correct"`
}

// ImportTopicRequest carries the form fields of a document import.
type ImportTopicRequest struct {
	Name string `form:"name" binding:"omitempty,max=255"`
}
