package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/quizdeck/internal/config"
	"github.com/stemsi/quizdeck/internal/model"
	"github.com/stemsi/quizdeck/internal/repository"
)

// AnswerRecorder receives every committed answer.
type AnswerRecorder interface {
	Record(ctx context.Context, event model.AnswerEvent) error
}

// QueueRecorder pushes events onto the Redis list drained by the answer log
// worker.
type QueueRecorder struct {
	rdb *redis.Client
}

// NewQueueRecorder creates a new QueueRecorder.
func NewQueueRecorder(rdb *redis.Client) *QueueRecorder {
	return &QueueRecorder{rdb: rdb}
}

// Record queues one event.
func (r *QueueRecorder) Record(ctx context.Context, event model.AnswerEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode answer event: %w", err)
	}
	if err := r.rdb.RPush(ctx, config.WorkerKey.PersistAnswerEventsQueue, payload).Err(); err != nil {
		return fmt.Errorf("queue answer event: %w", err)
	}
	return nil
}

// DirectRecorder writes events straight to an AnswerLog. It is used when no
// queue is available.
type DirectRecorder struct {
	log repository.AnswerLog
}

// NewDirectRecorder creates a new DirectRecorder.
func NewDirectRecorder(log repository.AnswerLog) *DirectRecorder {
	return &DirectRecorder{log: log}
}

// Record stores one event.
func (r *DirectRecorder) Record(ctx context.Context, event model.AnswerEvent) error {
	return r.log.RecordAnswers(ctx, []model.AnswerEvent{event})
}
