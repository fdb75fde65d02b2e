package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/quizdeck/internal/model"
)

// TopicRepository is the PostgreSQL TopicStore.
type TopicRepository struct {
	pool *pgxpool.Pool
}

// NewTopicRepository creates a new TopicRepository.
func NewTopicRepository(pool *pgxpool.Pool) *TopicRepository {
	return &TopicRepository{pool: pool}
}

const topicColumns = `t.id, t.name, t.created_at,
	(SELECT COUNT(*) FROM questions q WHERE q.topic_id = t.id)`

// ListTopics returns every topic, newest first.
func (r *TopicRepository) ListTopics(ctx context.Context) ([]model.Topic, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+topicColumns+`
		 FROM topics t
		 ORDER BY t.created_at DESC, t.name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	defer rows.Close()

	topics := []model.Topic{}
	for rows.Next() {
		var t model.Topic
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.QuestionCount); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// GetTopic retrieves one topic by ID.
func (r *TopicRepository) GetTopic(ctx context.Context, topicID uuid.UUID) (model.Topic, error) {
	var t model.Topic
	err := r.pool.QueryRow(ctx,
		`SELECT `+topicColumns+` FROM topics t WHERE t.id = $1`, topicID,
	).Scan(&t.ID, &t.Name, &t.CreatedAt, &t.QuestionCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Topic{}, ErrTopicNotFound
	}
	if err != nil {
		return model.Topic{}, fmt.Errorf("get topic: %w", err)
	}
	return t, nil
}

// LoadQuestions returns a topic's questions in stored order.
func (r *TopicRepository) LoadQuestions(ctx context.Context, topicID uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT prompt, options, correct_option
		 FROM questions WHERE topic_id = $1
		 ORDER BY position`, topicID,
	)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	questions := []model.Question{}
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.Prompt, &q.Options, &q.CorrectOption); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	if len(questions) == 0 {
		if _, err := r.GetTopic(ctx, topicID); err != nil {
			return nil, err
		}
	}
	return questions, nil
}

// SaveTopic inserts a topic and all of its questions in one transaction.
func (r *TopicRepository) SaveTopic(ctx context.Context, name string, questions []model.Question) (model.Topic, error) {
	topic := model.Topic{ID: uuid.New(), Name: name, QuestionCount: len(questions)}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return model.Topic{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx,
		`INSERT INTO topics (id, name) VALUES ($1, $2) RETURNING created_at`,
		topic.ID, topic.Name,
	).Scan(&topic.CreatedAt); err != nil {
		return model.Topic{}, fmt.Errorf("insert topic: %w", err)
	}

	rows := make([][]any, 0, len(questions))
	for i, q := range questions {
		options, err := json.Marshal(q.Options)
		if err != nil {
			return model.Topic{}, fmt.Errorf("encode options: %w", err)
		}
		rows = append(rows, []any{topic.ID, i, q.Prompt, json.RawMessage(options), q.CorrectOption})
	}

	if _, err := tx.CopyFrom(ctx,
		pgx.Identifier{"questions"},
		[]string{"topic_id", "position", "prompt", "options", "correct_option"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return model.Topic{}, fmt.Errorf("insert questions: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Topic{}, fmt.Errorf("commit topic: %w", err)
	}
	return topic, nil
}

// DeleteTopic removes a topic and its questions in one transaction.
func (r *TopicRepository) DeleteTopic(ctx context.Context, topicID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM questions WHERE topic_id = $1`, topicID); err != nil {
		return fmt.Errorf("delete questions: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM topics WHERE id = $1`, topicID)
	if err != nil {
		return fmt.Errorf("delete topic: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTopicNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}
	return nil
}
