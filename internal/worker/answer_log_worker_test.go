package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/quizdeck/internal/model"
)

// scriptedLog fails bulk writes when failBulk is set, and single-event
// writes for sessions listed in reject.
type scriptedLog struct {
	failBulk bool
	reject   map[string]bool
	stored   []model.AnswerEvent
	calls    int
}

func (l *scriptedLog) RecordAnswers(_ context.Context, events []model.AnswerEvent) error {
	l.calls++
	if len(events) > 1 && l.failBulk {
		return errors.New("deadlock detected")
	}
	for _, e := range events {
		if l.reject[e.SessionID] {
			return errors.New("violates foreign key constraint")
		}
	}
	l.stored = append(l.stored, events...)
	return nil
}

func (l *scriptedLog) TopicStats(context.Context, uuid.UUID) (model.TopicStats, error) {
	return model.TopicStats{}, nil
}

func newTestWorker(answers *scriptedLog) (*AnswerLogWorker, *[][]byte) {
	var requeued [][]byte
	w := &AnswerLogWorker{answers: answers, log: zerolog.Nop()}
	w.requeue = func(_ context.Context, raw []byte) error {
		requeued = append(requeued, raw)
		return nil
	}
	return w, &requeued
}

func event(session string, index int) *queuedEvent {
	return &queuedEvent{AnswerEvent: model.AnswerEvent{
		SessionID:     session,
		TopicID:       uuid.New(),
		QuestionIndex: index,
		Selected:      "4",
		Correct:       true,
	}}
}

func TestFlushBulkSuccess(t *testing.T) {
	answers := &scriptedLog{}
	w, requeued := newTestWorker(answers)

	w.flushSafe(context.Background(), []*queuedEvent{event("a", 0), event("a", 1), event("b", 0)})

	if answers.calls != 1 || len(answers.stored) != 3 {
		t.Fatalf("expected one bulk write of 3, got calls=%d stored=%d", answers.calls, len(answers.stored))
	}
	if len(*requeued) != 0 {
		t.Fatalf("nothing should be requeued")
	}
}

func TestFlushFallsBackAndRequeuesFailures(t *testing.T) {
	answers := &scriptedLog{failBulk: true, reject: map[string]bool{"bad": true}}
	w, requeued := newTestWorker(answers)

	w.flushSafe(context.Background(), []*queuedEvent{event("good", 0), event("bad", 0), event("good", 1)})

	if len(answers.stored) != 2 {
		t.Fatalf("fallback should store the 2 good events, stored %d", len(answers.stored))
	}
	if len(*requeued) != 1 {
		t.Fatalf("expected 1 requeued event, got %d", len(*requeued))
	}

	var e queuedEvent
	if err := json.Unmarshal((*requeued)[0], &e); err != nil {
		t.Fatalf("requeued payload: %v", err)
	}
	if e.SessionID != "bad" || e.Attempts != 1 {
		t.Fatalf("requeued = %+v", e)
	}
}

func TestFlushDropsAfterMaxAttempts(t *testing.T) {
	answers := &scriptedLog{reject: map[string]bool{"bad": true}}
	w, requeued := newTestWorker(answers)

	poison := event("bad", 0)
	poison.Attempts = AnswerMaxAttempts - 1
	w.flushSafe(context.Background(), []*queuedEvent{poison})

	if len(*requeued) != 0 {
		t.Fatalf("event at its last attempt should be dropped, requeued %d", len(*requeued))
	}
}

func TestQueuedEventReadsRecorderPayload(t *testing.T) {
	raw, _ := json.Marshal(model.AnswerEvent{SessionID: "s", QuestionIndex: 2, Selected: "x"})

	var e queuedEvent
	if err := json.Unmarshal(raw, &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if e.SessionID != "s" || e.QuestionIndex != 2 || e.Attempts != 0 {
		t.Fatalf("decoded = %+v", e)
	}
}

func TestFlushEmptyBatch(t *testing.T) {
	answers := &scriptedLog{}
	w, _ := newTestWorker(answers)
	w.flushSafe(context.Background(), nil)
	if answers.calls != 0 {
		t.Fatalf("empty batch should not touch storage")
	}
}

func TestStartBacksOffWhileRedisIsDown(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 50 * time.Millisecond,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	var logs bytes.Buffer
	w := &AnswerLogWorker{
		answers: &scriptedLog{},
		rdb:     rdb,
		backoff: time.Hour,
		log:     zerolog.New(&logs),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("worker did not stop after cancellation")
	}

	if n := strings.Count(logs.String(), "BLPop error"); n != 1 {
		t.Fatalf("expected one BLPop error before backing off, got %d", n)
	}
}
