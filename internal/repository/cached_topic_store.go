package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/quizdeck/internal/config"
	"github.com/stemsi/quizdeck/internal/model"
)

// QuestionCacheTTL bounds how long a question set stays cached. Entries are
// also dropped when their topic is deleted; the expiry clears one written
// back by a load that raced the delete.
const QuestionCacheTTL = 24 * time.Hour

// CachedTopicStore is a Redis read-through cache in front of another
// TopicStore. The topic list expires after ttl and question sets after
// QuestionCacheTTL. Cache faults are logged and fall through to the
// underlying store.
type CachedTopicStore struct {
	next TopicStore
	rdb  *redis.Client
	ttl  time.Duration
	log  zerolog.Logger
}

// NewCachedTopicStore wraps next with a Redis cache.
func NewCachedTopicStore(next TopicStore, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *CachedTopicStore {
	return &CachedTopicStore{
		next: next,
		rdb:  rdb,
		ttl:  ttl,
		log:  log.With().Str("component", "topic_cache").Logger(),
	}
}

// ListTopics serves the topic list from cache when fresh.
func (s *CachedTopicStore) ListTopics(ctx context.Context) ([]model.Topic, error) {
	key := config.CacheKey.TopicListKey()
	var topics []model.Topic
	if s.get(ctx, key, &topics) {
		return topics, nil
	}

	topics, err := s.next.ListTopics(ctx)
	if err != nil {
		return nil, err
	}
	s.set(ctx, key, topics, s.ttl)
	return topics, nil
}

// GetTopic always reads through; it is only used when a session starts.
func (s *CachedTopicStore) GetTopic(ctx context.Context, topicID uuid.UUID) (model.Topic, error) {
	return s.next.GetTopic(ctx, topicID)
}

// LoadQuestions serves a topic's questions from cache when present.
func (s *CachedTopicStore) LoadQuestions(ctx context.Context, topicID uuid.UUID) ([]model.Question, error) {
	key := config.CacheKey.TopicQuestionsKey(topicID)
	var questions []model.Question
	if s.get(ctx, key, &questions) {
		return questions, nil
	}

	questions, err := s.next.LoadQuestions(ctx, topicID)
	if err != nil {
		return nil, err
	}
	s.set(ctx, key, questions, QuestionCacheTTL)
	return questions, nil
}

// SaveTopic writes through and invalidates the topic list.
func (s *CachedTopicStore) SaveTopic(ctx context.Context, name string, questions []model.Question) (model.Topic, error) {
	topic, err := s.next.SaveTopic(ctx, name, questions)
	if err != nil {
		return model.Topic{}, err
	}
	s.invalidate(ctx, config.CacheKey.TopicListKey())
	return topic, nil
}

// DeleteTopic writes through and invalidates the list and the topic's entries.
func (s *CachedTopicStore) DeleteTopic(ctx context.Context, topicID uuid.UUID) error {
	if err := s.next.DeleteTopic(ctx, topicID); err != nil {
		return err
	}
	s.invalidate(ctx,
		config.CacheKey.TopicListKey(),
		config.CacheKey.TopicQuestionsKey(topicID),
	)
	return nil
}

func (s *CachedTopicStore) get(ctx context.Context, key string, dest any) bool {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Discarding undecodable cache entry")
		s.invalidate(ctx, key)
		return false
	}
	return true
}

func (s *CachedTopicStore) set(ctx context.Context, key string, value any, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}

func (s *CachedTopicStore) invalidate(ctx context.Context, keys ...string) {
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.log.Warn().Err(err).Strs("keys", keys).Msg("Cache invalidation failed")
	}
}
