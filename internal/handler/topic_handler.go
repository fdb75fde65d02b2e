package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stemsi/quizdeck/internal/model"
	"github.com/stemsi/quizdeck/internal/response"
	"github.com/stemsi/quizdeck/internal/service"
	"github.com/stemsi/quizdeck/internal/validator"
)

// TopicHandler serves topic listing, document import and deletion.
type TopicHandler struct {
	topicService *service.TopicService
}

// NewTopicHandler creates a new TopicHandler.
func NewTopicHandler(topicService *service.TopicService) *TopicHandler {
	return &TopicHandler{topicService: topicService}
}

// ListTopics godoc
// GET /api/v1/topics
// Storage faults answer 200 with an empty list and available=false.
func (h *TopicHandler) ListTopics(c *gin.Context) {
	topics, err := h.topicService.ListTopics(c.Request.Context())
	if err != nil {
		response.Degraded(c, gin.H{"topics": topics, "available": false}, response.ErrStorageUnavailable)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"topics": topics, "available": true})
}

// GetQuestions godoc
// GET /api/v1/topics/:id/questions
func (h *TopicHandler) GetQuestions(c *gin.Context) {
	topicID, ok := parseTopicID(c)
	if !ok {
		return
	}

	questions, err := h.topicService.LoadQuestions(c.Request.Context(), topicID)
	switch {
	case errors.Is(err, service.ErrTopicNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrTopicNotFound)
	case err != nil:
		c.Header("Cache-Control", "no-store")
		response.Degraded(c, gin.H{"questions": questions, "available": false}, response.ErrStorageUnavailable)
	default:
		response.Success(c, http.StatusOK, gin.H{"questions": questions, "available": true})
	}
}

// GetStats godoc
// GET /api/v1/topics/:id/stats
func (h *TopicHandler) GetStats(c *gin.Context) {
	topicID, ok := parseTopicID(c)
	if !ok {
		return
	}

	stats, err := h.topicService.Stats(c.Request.Context(), topicID)
	if err != nil {
		response.Degraded(c, gin.H{"stats": stats, "available": false}, response.ErrStorageUnavailable)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"stats": stats, "available": true})
}

// ImportTopic godoc
// POST /api/v1/topics/import
// Parses an uploaded .docx and saves its questions as a new topic.
func (h *TopicHandler) ImportTopic(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}

	var req model.ImportTopicRequest
	if fields := validator.BindForm(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	topic, questions, err := h.topicService.ImportUpload(c.Request.Context(), header, req.Name)
	if err != nil {
		failDocument(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"topic": topic, "questions": questions})
}

// PreviewDocument godoc
// POST /api/v1/topics/preview
// Parses an uploaded .docx without saving it.
func (h *TopicHandler) PreviewDocument(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}

	questions, err := h.topicService.ParseUpload(header)
	if err != nil {
		failDocument(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"questions": questions, "count": len(questions)})
}

// DeleteTopic godoc
// DELETE /api/v1/topics/:id
// Requires the admin secret.
func (h *TopicHandler) DeleteTopic(c *gin.Context) {
	topicID, ok := parseTopicID(c)
	if !ok {
		return
	}

	err := h.topicService.DeleteTopic(c.Request.Context(), topicID)
	switch {
	case errors.Is(err, service.ErrTopicNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrTopicNotFound)
	case err != nil:
		response.Fail(c, http.StatusServiceUnavailable, response.ErrStorageUnavailable)
	default:
		response.Success(c, http.StatusOK, gin.H{"message": "topic deleted successfully"})
	}
}

func parseTopicID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

func failDocument(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnsupportedFileType):
		response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
	case errors.Is(err, service.ErrFileTooLarge):
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
	case errors.Is(err, service.ErrNoQuestions):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrNoQuestions)
	case errors.Is(err, service.ErrStorageUnavailable):
		response.Fail(c, http.StatusServiceUnavailable, response.ErrStorageUnavailable)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
