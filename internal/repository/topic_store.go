package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/stemsi/quizdeck/internal/model"
)

// ErrTopicNotFound is returned when a topic ID matches no stored topic.
var ErrTopicNotFound = errors.New("topic not found")

// TopicStore persists topics and their ordered questions. SaveTopic and
// DeleteTopic are all-or-nothing.
type TopicStore interface {
	ListTopics(ctx context.Context) ([]model.Topic, error)
	GetTopic(ctx context.Context, topicID uuid.UUID) (model.Topic, error)
	LoadQuestions(ctx context.Context, topicID uuid.UUID) ([]model.Question, error)
	SaveTopic(ctx context.Context, name string, questions []model.Question) (model.Topic, error)
	DeleteTopic(ctx context.Context, topicID uuid.UUID) error
}

// AnswerLog stores committed answers and aggregates them per topic.
type AnswerLog interface {
	RecordAnswers(ctx context.Context, events []model.AnswerEvent) error
	TopicStats(ctx context.Context, topicID uuid.UUID) (model.TopicStats, error)
}
