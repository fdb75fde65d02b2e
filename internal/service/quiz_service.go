package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/quizdeck/internal/model"
	"github.com/stemsi/quizdeck/internal/quiz"
	"github.com/stemsi/quizdeck/internal/repository"
)

// ErrSessionNotFound is returned for unknown, expired or discarded sessions.
var ErrSessionNotFound = errors.New("quiz session not found")

// Outcome is the result of one session operation. Applied is false when the
// operation was a no-op, which is never an error.
type Outcome struct {
	Applied  bool          `json:"applied"`
	Correct  *bool         `json:"correct,omitempty"`
	Snapshot quiz.Snapshot `json:"snapshot"`
}

// StartedSession is a freshly loaded session and its bearer token.
type StartedSession struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	Snapshot  quiz.Snapshot `json:"snapshot"`
}

// QuizService runs quiz sessions. Each call loads the session, applies one
// operation to completion and stores it back.
type QuizService struct {
	topics   *TopicService
	sessions repository.SessionStore
	tokens   *TokenService
	recorder AnswerRecorder
	now      func() time.Time
	log      zerolog.Logger
}

// NewQuizService creates a new QuizService. recorder may be nil.
func NewQuizService(
	topics *TopicService,
	sessions repository.SessionStore,
	tokens *TokenService,
	recorder AnswerRecorder,
	log zerolog.Logger,
) *QuizService {
	return &QuizService{
		topics:   topics,
		sessions: sessions,
		tokens:   tokens,
		recorder: recorder,
		now:      time.Now,
		log:      log.With().Str("component", "quiz_service").Logger(),
	}
}

// Tokens exposes the token service for transport middleware.
func (s *QuizService) Tokens() *TokenService {
	return s.tokens
}

// Start loads a topic into a new session.
func (s *QuizService) Start(ctx context.Context, topicID uuid.UUID, mode quiz.Mode) (StartedSession, error) {
	topic, err := s.topics.GetTopic(ctx, topicID)
	if err != nil {
		return StartedSession{}, err
	}
	questions, err := s.topics.LoadQuestions(ctx, topicID)
	if err != nil {
		return StartedSession{}, err
	}

	sess := quiz.New(uuid.New().String())
	sess.Load(topic.ID, topic.Name, questions, mode)

	if err := s.sessions.Save(ctx, sess); err != nil {
		return StartedSession{}, fmt.Errorf("save session: %w", err)
	}

	token, expires, err := s.tokens.Issue(sess.ID, topic.ID.String())
	if err != nil {
		return StartedSession{}, err
	}

	s.log.Info().
		Str("session_id", sess.ID).
		Str("topic_id", topic.ID.String()).
		Str("mode", string(mode)).
		Int("questions", len(questions)).
		Msg("Quiz session started")

	return StartedSession{Token: token, ExpiresAt: expires, Snapshot: sess.Snapshot()}, nil
}

// Snapshot returns the session's current view.
func (s *QuizService) Snapshot(ctx context.Context, sessionID string) (quiz.Snapshot, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return quiz.Snapshot{}, err
	}
	return sess.Snapshot(), nil
}

// Commit answers the current question. Only the first answer counts.
func (s *QuizService) Commit(ctx context.Context, sessionID, option string) (Outcome, error) {
	var commit quiz.Commit
	var sess *quiz.Session
	out, err := s.apply(ctx, sessionID, func(x *quiz.Session) bool {
		sess = x
		commit = x.CommitAnswer(option)
		return commit.Applied
	})
	if err != nil || !commit.Applied {
		return out, err
	}

	out.Correct = &commit.Correct
	if s.recorder != nil {
		event := model.AnswerEvent{
			SessionID:     sess.ID,
			TopicID:       sess.TopicID,
			QuestionIndex: commit.QuestionIndex,
			Selected:      option,
			Correct:       commit.Correct,
			AnsweredAt:    s.now().Unix(),
		}
		if err := s.recorder.Record(ctx, event); err != nil {
			s.log.Warn().Err(err).Str("session_id", sess.ID).Msg("Answer event not recorded")
		}
	}
	return out, nil
}

// Next moves to the following question.
func (s *QuizService) Next(ctx context.Context, sessionID string) (Outcome, error) {
	return s.apply(ctx, sessionID, (*quiz.Session).Next)
}

// Previous moves to the preceding question.
func (s *QuizService) Previous(ctx context.Context, sessionID string) (Outcome, error) {
	return s.apply(ctx, sessionID, (*quiz.Session).Previous)
}

// Jump moves to a 1-based question number.
func (s *QuizService) Jump(ctx context.Context, sessionID string, number int) (Outcome, error) {
	return s.apply(ctx, sessionID, func(x *quiz.Session) bool {
		return x.JumpTo(number - 1)
	})
}

// ChangeMode switches between sequential and random order.
func (s *QuizService) ChangeMode(ctx context.Context, sessionID string, mode quiz.Mode) (Outcome, error) {
	return s.apply(ctx, sessionID, func(x *quiz.Session) bool {
		return x.ChangeMode(mode)
	})
}

// End discards a session.
func (s *QuizService) End(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.log.Info().Str("session_id", sessionID).Msg("Quiz session ended")
	return nil
}

func (s *QuizService) load(ctx context.Context, sessionID string) (*quiz.Session, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return sess, nil
}

func (s *QuizService) apply(ctx context.Context, sessionID string, op func(*quiz.Session) bool) (Outcome, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return Outcome{}, err
	}

	applied := op(sess)
	if applied {
		if err := s.sessions.Save(ctx, sess); err != nil {
			return Outcome{}, fmt.Errorf("save session: %w", err)
		}
	}
	return Outcome{Applied: applied, Snapshot: sess.Snapshot()}, nil
}
