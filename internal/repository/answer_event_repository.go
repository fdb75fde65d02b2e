package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/quizdeck/internal/model"
)

// AnswerEventRepository is the PostgreSQL AnswerLog.
type AnswerEventRepository struct {
	pool *pgxpool.Pool
}

// NewAnswerEventRepository creates a new AnswerEventRepository.
func NewAnswerEventRepository(pool *pgxpool.Pool) *AnswerEventRepository {
	return &AnswerEventRepository{pool: pool}
}

// RecordAnswers bulk-inserts events with UNNEST. A session answers each
// question once, so replays of the same event are ignored.
func (r *AnswerEventRepository) RecordAnswers(ctx context.Context, events []model.AnswerEvent) error {
	if len(events) == 0 {
		return nil
	}

	n := len(events)
	sessionIDs := make([]string, 0, n)
	topicIDs := make([]uuid.UUID, 0, n)
	indexes := make([]int32, 0, n)
	selected := make([]string, 0, n)
	correct := make([]bool, 0, n)
	answeredAt := make([]time.Time, 0, n)

	for _, e := range events {
		sessionIDs = append(sessionIDs, e.SessionID)
		topicIDs = append(topicIDs, e.TopicID)
		indexes = append(indexes, int32(e.QuestionIndex))
		selected = append(selected, e.Selected)
		correct = append(correct, e.Correct)
		answeredAt = append(answeredAt, time.Unix(e.AnsweredAt, 0))
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO answer_events (session_id, topic_id, question_index, selected, correct, answered_at)
		 SELECT * FROM UNNEST($1::varchar[], $2::uuid[], $3::int[], $4::text[], $5::bool[], $6::timestamptz[])
		 ON CONFLICT (session_id, topic_id, question_index) DO NOTHING`,
		sessionIDs, topicIDs, indexes, selected, correct, answeredAt,
	)
	if err != nil {
		return fmt.Errorf("insert answer events: %w", err)
	}
	return nil
}

// TopicStats counts recorded answers for a topic.
func (r *AnswerEventRepository) TopicStats(ctx context.Context, topicID uuid.UUID) (model.TopicStats, error) {
	stats := model.TopicStats{TopicID: topicID}
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE correct)
		 FROM answer_events WHERE topic_id = $1`, topicID,
	).Scan(&stats.Answers, &stats.Correct)
	if err != nil {
		return model.TopicStats{TopicID: topicID}, fmt.Errorf("topic stats: %w", err)
	}
	return stats, nil
}
