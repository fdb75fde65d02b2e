package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/quizdeck/internal/model"
)

// SQLiteTopicStore is the single-file TopicStore and AnswerLog used when
// STORAGE_DRIVER=sqlite.
type SQLiteTopicStore struct {
	db *sql.DB
}

// NewSQLiteTopicStore wraps db and creates the schema if it is missing.
func NewSQLiteTopicStore(ctx context.Context, db *sql.DB) (*SQLiteTopicStore, error) {
	s := &SQLiteTopicStore{db: db}
	if err := s.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteTopicStore) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS topics (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_at_unix INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS questions (
			topic_id TEXT NOT NULL REFERENCES topics(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			prompt TEXT NOT NULL,
			options_json TEXT NOT NULL,
			correct_option TEXT NOT NULL,
			PRIMARY KEY (topic_id, position)
		);`,
		`CREATE TABLE IF NOT EXISTS answer_events (
			session_id TEXT NOT NULL,
			topic_id TEXT NOT NULL REFERENCES topics(id) ON DELETE CASCADE,
			question_index INTEGER NOT NULL,
			selected TEXT NOT NULL,
			correct INTEGER NOT NULL,
			answered_at_unix INTEGER NOT NULL,
			PRIMARY KEY (session_id, topic_id, question_index)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_topics_created_at ON topics(created_at_unix DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_answer_events_topic ON answer_events(topic_id);`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

const sqliteTopicColumns = `t.id, t.name, t.created_at_unix,
	(SELECT COUNT(*) FROM questions q WHERE q.topic_id = t.id)`

func scanSQLiteTopic(scan func(dest ...any) error) (model.Topic, error) {
	var (
		t         model.Topic
		id        string
		createdNs int64
	)
	if err := scan(&id, &t.Name, &createdNs, &t.QuestionCount); err != nil {
		return model.Topic{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return model.Topic{}, fmt.Errorf("topic id %q: %w", id, err)
	}
	t.ID = parsed
	t.CreatedAt = time.Unix(0, createdNs).UTC()
	return t, nil
}

// ListTopics returns every topic, newest first.
func (s *SQLiteTopicStore) ListTopics(ctx context.Context) ([]model.Topic, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sqliteTopicColumns+`
		 FROM topics t
		 ORDER BY t.created_at_unix DESC, t.name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	defer rows.Close()

	topics := []model.Topic{}
	for rows.Next() {
		t, err := scanSQLiteTopic(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// GetTopic retrieves one topic by ID.
func (s *SQLiteTopicStore) GetTopic(ctx context.Context, topicID uuid.UUID) (model.Topic, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sqliteTopicColumns+` FROM topics t WHERE t.id = ?`, topicID.String(),
	)
	t, err := scanSQLiteTopic(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Topic{}, ErrTopicNotFound
	}
	if err != nil {
		return model.Topic{}, fmt.Errorf("get topic: %w", err)
	}
	return t, nil
}

// LoadQuestions returns a topic's questions in stored order.
func (s *SQLiteTopicStore) LoadQuestions(ctx context.Context, topicID uuid.UUID) ([]model.Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT prompt, options_json, correct_option
		 FROM questions WHERE topic_id = ?
		 ORDER BY position`, topicID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	questions := []model.Question{}
	for rows.Next() {
		var (
			q           model.Question
			optionsJSON string
		)
		if err := rows.Scan(&q.Prompt, &optionsJSON, &q.CorrectOption); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal([]byte(optionsJSON), &q.Options); err != nil {
			return nil, fmt.Errorf("decode options: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	if len(questions) == 0 {
		if _, err := s.GetTopic(ctx, topicID); err != nil {
			return nil, err
		}
	}
	return questions, nil
}

// SaveTopic inserts a topic and all of its questions in one transaction.
func (s *SQLiteTopicStore) SaveTopic(ctx context.Context, name string, questions []model.Question) (model.Topic, error) {
	topic := model.Topic{
		ID:            uuid.New(),
		Name:          name,
		QuestionCount: len(questions),
		CreatedAt:     time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Topic{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO topics (id, name, created_at_unix) VALUES (?, ?, ?)`,
		topic.ID.String(), topic.Name, topic.CreatedAt.UnixNano(),
	); err != nil {
		return model.Topic{}, fmt.Errorf("insert topic: %w", err)
	}

	for i, q := range questions {
		optionsJSON, err := json.Marshal(q.Options)
		if err != nil {
			return model.Topic{}, fmt.Errorf("encode options: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO questions (topic_id, position, prompt, options_json, correct_option)
			 VALUES (?, ?, ?, ?, ?)`,
			topic.ID.String(), i, q.Prompt, string(optionsJSON), q.CorrectOption,
		); err != nil {
			return model.Topic{}, fmt.Errorf("insert question %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return model.Topic{}, fmt.Errorf("commit topic: %w", err)
	}
	return topic, nil
}

// DeleteTopic removes a topic, its questions and its answer events in one
// transaction.
func (s *SQLiteTopicStore) DeleteTopic(ctx context.Context, topicID uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	id := topicID.String()
	for _, stmt := range []string{
		`DELETE FROM answer_events WHERE topic_id = ?`,
		`DELETE FROM questions WHERE topic_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return fmt.Errorf("delete topic rows: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM topics WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete topic: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete topic: %w", err)
	}
	if affected == 0 {
		return ErrTopicNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}
	return nil
}

// RecordAnswers inserts events, ignoring replays of an already logged answer.
func (s *SQLiteTopicStore) RecordAnswers(ctx context.Context, events []model.AnswerEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, e := range events {
		correct := 0
		if e.Correct {
			correct = 1
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO answer_events (session_id, topic_id, question_index, selected, correct, answered_at_unix)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			e.SessionID, e.TopicID.String(), e.QuestionIndex, e.Selected, correct, e.AnsweredAt,
		); err != nil {
			return fmt.Errorf("insert answer event: %w", err)
		}
	}
	return tx.Commit()
}

// TopicStats counts recorded answers for a topic.
func (s *SQLiteTopicStore) TopicStats(ctx context.Context, topicID uuid.UUID) (model.TopicStats, error) {
	stats := model.TopicStats{TopicID: topicID}
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(correct), 0)
		 FROM answer_events WHERE topic_id = ?`, topicID.String(),
	).Scan(&stats.Answers, &stats.Correct)
	if err != nil {
		return model.TopicStats{TopicID: topicID}, fmt.Errorf("topic stats: %w", err)
	}
	return stats, nil
}
