package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stemsi/quizdeck/internal/config"
	"github.com/stemsi/quizdeck/internal/quiz"
)

// ErrSessionNotFound is returned for unknown or expired sessions.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore holds serialized quiz sessions. Reads extend the session's
// lifetime.
type SessionStore interface {
	Get(ctx context.Context, id string) (*quiz.Session, error)
	Save(ctx context.Context, s *quiz.Session) error
	Delete(ctx context.Context, id string) error
}

// RedisSessionStore keeps sessions as JSON strings under quiz:session:<id>.
type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisSessionStore creates a new RedisSessionStore.
func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

// Get loads a session and slides its expiry.
func (s *RedisSessionStore) Get(ctx context.Context, id string) (*quiz.Session, error) {
	raw, err := s.rdb.GetEx(ctx, config.CacheKey.QuizSessionKey(id), s.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var sess quiz.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

// Save stores the session with a fresh expiry.
func (s *RedisSessionStore) Save(ctx context.Context, sess *quiz.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.rdb.Set(ctx, config.CacheKey.QuizSessionKey(sess.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Delete discards a session.
func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, config.CacheKey.QuizSessionKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

type memoryEntry struct {
	data    []byte
	expires time.Time
}

// MemorySessionStore is the in-process SessionStore used without Redis.
// Sessions are stored serialized so callers never share a live value.
type MemorySessionStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemorySessionStore creates a new MemorySessionStore.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

// Get loads a session and slides its expiry.
func (s *MemorySessionStore) Get(_ context.Context, id string) (*quiz.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entry, ok := s.entries[id]
	if !ok || now.After(entry.expires) {
		delete(s.entries, id)
		return nil, ErrSessionNotFound
	}
	entry.expires = now.Add(s.ttl)
	s.entries[id] = entry

	var sess quiz.Session
	if err := json.Unmarshal(entry.data, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

// Save stores the session with a fresh expiry and sweeps expired entries.
func (s *MemorySessionStore) Save(_ context.Context, sess *quiz.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, entry := range s.entries {
		if now.After(entry.expires) {
			delete(s.entries, id)
		}
	}
	s.entries[sess.ID] = memoryEntry{data: data, expires: now.Add(s.ttl)}
	return nil
}

// Delete discards a session.
func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}
