package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/quizdeck/internal/config"
	"github.com/stemsi/quizdeck/internal/model"
	"github.com/stemsi/quizdeck/internal/repository"
)

const (
	AnswerBatchSize    = 50
	AnswerBatchTimeout = 2 * time.Second
	AnswerPollTimeout  = 1 * time.Second
	AnswerErrorBackoff = 1 * time.Second

	// AnswerMaxAttempts bounds how often a single event is requeued before
	// it is dropped, so a row the database always rejects cannot cycle
	// through the queue forever.
	AnswerMaxAttempts = 3
)

// AnswerLogWorker drains committed answer events from Redis into the answer
// log in batches.
type AnswerLogWorker struct {
	answers repository.AnswerLog
	rdb     *redis.Client
	requeue func(ctx context.Context, raw []byte) error
	backoff time.Duration
	log     zerolog.Logger
}

func NewAnswerLogWorker(answers repository.AnswerLog, rdb *redis.Client, log zerolog.Logger) *AnswerLogWorker {
	w := &AnswerLogWorker{
		answers: answers,
		rdb:     rdb,
		backoff: AnswerErrorBackoff,
		log:     log.With().Str("component", "answer_log_worker").Logger(),
	}
	w.requeue = func(ctx context.Context, raw []byte) error {
		return w.rdb.RPush(ctx, config.WorkerKey.PersistAnswerEventsQueue, raw).Err()
	}
	return w
}

// queuedEvent is the queue payload. Attempts is absent on first push.
type queuedEvent struct {
	model.AnswerEvent
	Attempts int `json:"attempts,omitempty"`
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

func (w *AnswerLogWorker) Start(ctx context.Context) {
	w.log.Info().Msg("AnswerLogWorker started")

	batch := make([]*queuedEvent, 0, AnswerBatchSize)
	lastFlush := time.Now()

	for {
		// Should flush?
		if len(batch) > 0 &&
			(len(batch) >= AnswerBatchSize || time.Since(lastFlush) >= AnswerBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			w.flushSafe(flushCtx, batch)
			cancel()
			return

		default:
			item, err := w.rdb.BLPop(ctx, AnswerPollTimeout, config.WorkerKey.PersistAnswerEventsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
					w.pause(ctx)
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var e queuedEvent
			if err := json.Unmarshal([]byte(item[1]), &e); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, &e)
		}
	}
}

// pause waits out a Redis outage without spinning on BLPop.
func (w *AnswerLogWorker) pause(ctx context.Context) {
	timer := time.NewTimer(w.backoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// ----------------------------------------------------------------
// Batch insert with per-event fallback
// ----------------------------------------------------------------

func (w *AnswerLogWorker) flushSafe(ctx context.Context, batch []*queuedEvent) {
	if len(batch) == 0 {
		return
	}

	events := make([]model.AnswerEvent, len(batch))
	for i, e := range batch {
		events[i] = e.AnswerEvent
	}

	err := w.answers.RecordAnswers(ctx, events)
	if err == nil {
		w.log.Debug().Int("count", len(events)).Msg("Answer events persisted")
		return
	}

	w.log.Warn().Err(err).Int("count", len(events)).Msg("bulk answer insert failed, using fallback")

	for _, e := range batch {
		singleErr := w.answers.RecordAnswers(ctx, []model.AnswerEvent{e.AnswerEvent})
		if singleErr == nil {
			continue
		}

		e.Attempts++
		if e.Attempts >= AnswerMaxAttempts {
			w.log.Error().Err(singleErr).
				Str("session_id", e.SessionID).
				Int("question_index", e.QuestionIndex).
				Msg("Answer event dropped after repeated failures")
			continue
		}

		raw, _ := json.Marshal(e)
		if err := w.requeue(ctx, raw); err != nil {
			w.log.Error().Err(err).Str("session_id", e.SessionID).Msg("Requeue failed, answer event lost")
		}
	}
}
