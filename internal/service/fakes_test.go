package service

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/quizdeck/internal/model"
	"github.com/stemsi/quizdeck/internal/repository"
)

var errStoreDown = errors.New("connection refused")

// fakeStore is an in-memory repository.TopicStore. Setting fail makes every
// call return errStoreDown.
type fakeStore struct {
	mu        sync.Mutex
	fail      bool
	topics    map[uuid.UUID]model.Topic
	questions map[uuid.UUID][]model.Question
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		topics:    map[uuid.UUID]model.Topic{},
		questions: map[uuid.UUID][]model.Question{},
	}
}

func (f *fakeStore) ListTopics(context.Context) ([]model.Topic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errStoreDown
	}
	out := []model.Topic{}
	for _, t := range f.topics {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeStore) GetTopic(_ context.Context, id uuid.UUID) (model.Topic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return model.Topic{}, errStoreDown
	}
	t, ok := f.topics[id]
	if !ok {
		return model.Topic{}, repository.ErrTopicNotFound
	}
	return t, nil
}

func (f *fakeStore) LoadQuestions(_ context.Context, id uuid.UUID) ([]model.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errStoreDown
	}
	qs, ok := f.questions[id]
	if !ok {
		return nil, repository.ErrTopicNotFound
	}
	return qs, nil
}

func (f *fakeStore) SaveTopic(_ context.Context, name string, questions []model.Question) (model.Topic, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return model.Topic{}, errStoreDown
	}
	t := model.Topic{ID: uuid.New(), Name: name, QuestionCount: len(questions), CreatedAt: time.Now()}
	f.topics[t.ID] = t
	f.questions[t.ID] = questions
	return t, nil
}

func (f *fakeStore) DeleteTopic(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errStoreDown
	}
	if _, ok := f.topics[id]; !ok {
		return repository.ErrTopicNotFound
	}
	delete(f.topics, id)
	delete(f.questions, id)
	return nil
}

// fakeRecorder captures recorded answer events.
type fakeRecorder struct {
	events []model.AnswerEvent
	err    error
}

func (r *fakeRecorder) Record(_ context.Context, e model.AnswerEvent) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, e)
	return nil
}

// fakeAnswerLog returns canned stats or an error.
type fakeAnswerLog struct {
	stats model.TopicStats
	err   error
}

func (l *fakeAnswerLog) RecordAnswers(context.Context, []model.AnswerEvent) error { return l.err }

func (l *fakeAnswerLog) TopicStats(_ context.Context, id uuid.UUID) (model.TopicStats, error) {
	if l.err != nil {
		return model.TopicStats{}, l.err
	}
	s := l.stats
	s.TopicID = id
	return s, nil
}

func arithmetic() []model.Question {
	return []model.Question{
		{Prompt: "1. What is 2+2?", Options: []string{"3", "4"}, CorrectOption: "4"},
		{Prompt: "2. What is 3+3?", Options: []string{"6", "7"}, CorrectOption: "6"},
		{Prompt: "3. What is 1+1?", Options: []string{"1", "2"}, CorrectOption: "2"},
	}
}

const wordNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

// docxBytes builds a minimal .docx whose body holds one plain paragraph per
// line. Lines starting with "!" are written as a bold run.
func docxBytes(t *testing.T, lines ...string) []byte {
	t.Helper()
	var body strings.Builder
	for _, line := range lines {
		if strings.HasPrefix(line, "!") {
			body.WriteString(`<w:p><w:r><w:rPr><w:b/></w:rPr><w:t>` + line[1:] + `</w:t></w:r></w:p>`)
			continue
		}
		body.WriteString(`<w:p><w:r><w:t>` + line + `</w:t></w:r></w:p>`)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("zip create: %v", err)
	}
	_, _ = w.Write([]byte(`<w:document ` + wordNS + `><w:body>` + body.String() + `</w:body></w:document>`))
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}
