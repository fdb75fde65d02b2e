package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/quizdeck/internal/docx"
	"github.com/stemsi/quizdeck/internal/model"
	"github.com/stemsi/quizdeck/internal/parser"
	"github.com/stemsi/quizdeck/internal/repository"
)

// Domain Errors
var (
	// ErrStorageUnavailable wraps every topic store failure.
	ErrStorageUnavailable  = errors.New("topic storage unavailable")
	ErrTopicNotFound       = errors.New("topic not found")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
	ErrNoQuestions         = errors.New("document contains no questions")
)

const docxExt = ".docx"

// TopicService is the boundary between callers and the topic store. Store
// failures never escape as raw errors: reads return an empty, usable value
// alongside an error wrapping ErrStorageUnavailable, and writes report that
// nothing was saved or deleted.
type TopicService struct {
	store          repository.TopicStore
	answers        repository.AnswerLog
	cues           *parser.Cues
	maxUploadBytes int64
	log            zerolog.Logger
}

// NewTopicService creates a new TopicService. answers may be nil, in which
// case stats are always empty.
func NewTopicService(
	store repository.TopicStore,
	answers repository.AnswerLog,
	cues *parser.Cues,
	maxUploadBytes int64,
	log zerolog.Logger,
) *TopicService {
	if cues == nil {
		cues = parser.DefaultCues()
	}
	return &TopicService{
		store:          store,
		answers:        answers,
		cues:           cues,
		maxUploadBytes: maxUploadBytes,
		log:            log.With().Str("component", "topic_service").Logger(),
	}
}

// ListTopics returns all topics, newest first.
func (s *TopicService) ListTopics(ctx context.Context) ([]model.Topic, error) {
	topics, err := s.store.ListTopics(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("List topics failed")
		return []model.Topic{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if topics == nil {
		topics = []model.Topic{}
	}
	return topics, nil
}

// GetTopic returns a single topic.
func (s *TopicService) GetTopic(ctx context.Context, topicID uuid.UUID) (model.Topic, error) {
	topic, err := s.store.GetTopic(ctx, topicID)
	if err != nil {
		return model.Topic{}, s.storeError(err, topicID, "Get topic failed")
	}
	return topic, nil
}

// LoadQuestions returns a topic's questions in stored order.
func (s *TopicService) LoadQuestions(ctx context.Context, topicID uuid.UUID) ([]model.Question, error) {
	questions, err := s.store.LoadQuestions(ctx, topicID)
	if err != nil {
		return []model.Question{}, s.storeError(err, topicID, "Load questions failed")
	}
	if questions == nil {
		questions = []model.Question{}
	}
	return questions, nil
}

// SaveTopic persists questions under name. saved is false whenever the
// store rejected the write; nothing is retried.
func (s *TopicService) SaveTopic(ctx context.Context, name string, questions []model.Question) (topic model.Topic, saved bool, err error) {
	topic, err = s.store.SaveTopic(ctx, name, questions)
	if err != nil {
		s.log.Error().Err(err).Str("name", name).Int("questions", len(questions)).Msg("Save topic failed")
		return model.Topic{}, false, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	s.log.Info().Str("topic_id", topic.ID.String()).Str("name", name).Int("questions", len(questions)).Msg("Topic saved")
	return topic, true, nil
}

// DeleteTopic removes a topic and its questions. Callers must have passed
// the admin gate.
func (s *TopicService) DeleteTopic(ctx context.Context, topicID uuid.UUID) error {
	if err := s.store.DeleteTopic(ctx, topicID); err != nil {
		return s.storeError(err, topicID, "Delete topic failed")
	}
	s.log.Info().Str("topic_id", topicID.String()).Msg("Topic deleted")
	return nil
}

// Stats aggregates recorded answers for a topic.
func (s *TopicService) Stats(ctx context.Context, topicID uuid.UUID) (model.TopicStats, error) {
	empty := model.TopicStats{TopicID: topicID}
	if s.answers == nil {
		return empty, nil
	}
	stats, err := s.answers.TopicStats(ctx, topicID)
	if err != nil {
		s.log.Error().Err(err).Str("topic_id", topicID.String()).Msg("Topic stats failed")
		return empty, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return stats, nil
}

// ParseUpload validates an uploaded .docx and parses it into questions. The
// result may be empty; parsing itself never fails.
func (s *TopicService) ParseUpload(header *multipart.FileHeader) ([]model.Question, error) {
	file, err := s.openUpload(header)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return s.ParseDocument(file)
}

// ImportUpload validates an uploaded .docx and imports it as a new topic.
func (s *TopicService) ImportUpload(ctx context.Context, header *multipart.FileHeader, name string) (model.Topic, []model.Question, error) {
	file, err := s.openUpload(header)
	if err != nil {
		return model.Topic{}, nil, err
	}
	defer file.Close()

	return s.Import(ctx, file, header.Filename, name)
}

func (s *TopicService) openUpload(header *multipart.FileHeader) (multipart.File, error) {
	if !strings.EqualFold(filepath.Ext(header.Filename), docxExt) {
		return nil, fmt.Errorf("%w: %s (allowed: %s)", ErrUnsupportedFileType, header.Filename, docxExt)
	}
	if s.maxUploadBytes > 0 && header.Size > s.maxUploadBytes {
		return nil, fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, header.Size, s.maxUploadBytes)
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	return file, nil
}

// ParseDocument reads a .docx stream and parses it into questions.
func (s *TopicService) ParseDocument(r io.Reader) ([]model.Question, error) {
	limit := s.maxUploadBytes
	if limit <= 0 {
		limit = 64 << 20
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, limit)
	}

	paragraphs, err := docx.Decode(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		if errors.Is(err, docx.ErrNotDocx) {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedFileType, err)
		}
		return nil, err
	}

	questions := s.cues.Parse(paragraphs)
	s.log.Debug().Int("paragraphs", len(paragraphs)).Int("questions", len(questions)).Msg("Document parsed")
	return questions, nil
}

// Import parses a document and saves its questions as a new topic named
// name, or after the file when name is blank.
func (s *TopicService) Import(ctx context.Context, r io.Reader, filename, name string) (model.Topic, []model.Question, error) {
	questions, err := s.ParseDocument(r)
	if err != nil {
		return model.Topic{}, nil, err
	}
	if len(questions) == 0 {
		return model.Topic{}, questions, ErrNoQuestions
	}

	topic, saved, err := s.SaveTopic(ctx, topicName(name, filename), questions)
	if !saved {
		return model.Topic{}, questions, err
	}
	return topic, questions, nil
}

// topicName picks the display name of an imported document.
func topicName(name, filename string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		return "Untitled"
	}
	return base
}

func (s *TopicService) storeError(err error, topicID uuid.UUID, msg string) error {
	if errors.Is(err, repository.ErrTopicNotFound) {
		return ErrTopicNotFound
	}
	s.log.Error().Err(err).Str("topic_id", topicID.String()).Msg(msg)
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}
