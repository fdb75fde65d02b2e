package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/quizdeck/internal/config"
	"github.com/stemsi/quizdeck/internal/repository"
)

// Storage is the set of backends selected by configuration.
type Storage struct {
	// Topics is decorated with the Redis cache when Redis is enabled.
	Topics  repository.TopicStore
	Answers repository.AnswerLog
	// Redis is nil when REDIS_URL is unset.
	Redis *redis.Client

	closers []func()
}

// OpenStorage connects the topic store named by STORAGE_DRIVER and, if
// configured, Redis.
func OpenStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Storage, error) {
	s := &Storage{}

	switch cfg.StorageDriver {
	case config.DriverPostgres:
		pool, err := NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, pool.Close)
		s.Topics = repository.NewTopicRepository(pool)
		s.Answers = repository.NewAnswerEventRepository(pool)

	case config.DriverSQLite:
		db, err := NewSQLiteDB(ctx, cfg.SQLitePath, log)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func() { _ = db.Close() })
		store, err := repository.NewSQLiteTopicStore(ctx, db)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.Topics = store
		s.Answers = store

	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q (want %s or %s)", cfg.StorageDriver, config.DriverPostgres, config.DriverSQLite)
	}

	rdb, err := NewRedisClient(ctx, cfg, log)
	if err != nil {
		s.Close()
		return nil, err
	}
	if rdb != nil {
		s.Redis = rdb
		s.closers = append(s.closers, func() { _ = rdb.Close() })
		s.Topics = repository.NewCachedTopicStore(s.Topics, rdb, cfg.TopicCacheTTL, log)
	}

	return s, nil
}

// Close releases every backend in reverse order of opening.
func (s *Storage) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}
