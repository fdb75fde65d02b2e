package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/quizdeck/internal/middleware"
	"github.com/stemsi/quizdeck/internal/model"
	"github.com/stemsi/quizdeck/internal/quiz"
	"github.com/stemsi/quizdeck/internal/response"
	"github.com/stemsi/quizdeck/internal/service"
	"github.com/stemsi/quizdeck/internal/validator"
)

// QuizHandler exposes the quiz session operations. Every route except Start
// acts on the session named by the bearer token.
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// StartSession godoc
// POST /api/v1/quiz/sessions
func (h *QuizHandler) StartSession(c *gin.Context) {
	var req model.StartSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	started, err := h.quizService.Start(c.Request.Context(), req.TopicID, quiz.ParseMode(req.Mode))
	if err != nil {
		failSession(c, err)
		return
	}
	response.Success(c, http.StatusCreated, started)
}

// GetSnapshot godoc
// GET /api/v1/quiz/session
func (h *QuizHandler) GetSnapshot(c *gin.Context) {
	snap, err := h.quizService.Snapshot(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		failSession(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"snapshot": snap})
}

// CommitAnswer godoc
// POST /api/v1/quiz/session/answer
func (h *QuizHandler) CommitAnswer(c *gin.Context) {
	var req model.CommitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	out, err := h.quizService.Commit(c.Request.Context(), middleware.SessionID(c), req.Option)
	h.outcome(c, out, err)
}

// Next godoc
// POST /api/v1/quiz/session/next
func (h *QuizHandler) Next(c *gin.Context) {
	out, err := h.quizService.Next(c.Request.Context(), middleware.SessionID(c))
	h.outcome(c, out, err)
}

// Previous godoc
// POST /api/v1/quiz/session/previous
func (h *QuizHandler) Previous(c *gin.Context) {
	out, err := h.quizService.Previous(c.Request.Context(), middleware.SessionID(c))
	h.outcome(c, out, err)
}

// Jump godoc
// POST /api/v1/quiz/session/jump
func (h *QuizHandler) Jump(c *gin.Context) {
	var req model.JumpRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	out, err := h.quizService.Jump(c.Request.Context(), middleware.SessionID(c), req.Number)
	h.outcome(c, out, err)
}

// ChangeMode godoc
// PUT /api/v1/quiz/session/mode
func (h *QuizHandler) ChangeMode(c *gin.Context) {
	var req model.ChangeModeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	out, err := h.quizService.ChangeMode(c.Request.Context(), middleware.SessionID(c), quiz.ParseMode(req.Mode))
	h.outcome(c, out, err)
}

// EndSession godoc
// DELETE /api/v1/quiz/session
func (h *QuizHandler) EndSession(c *gin.Context) {
	if err := h.quizService.End(c.Request.Context(), middleware.SessionID(c)); err != nil {
		failSession(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "session ended"})
}

// outcome writes a session operation result. No-ops are 200 with
// applied=false.
func (h *QuizHandler) outcome(c *gin.Context, out service.Outcome, err error) {
	if err != nil {
		failSession(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func failSession(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
	case errors.Is(err, service.ErrTopicNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrTopicNotFound)
	case errors.Is(err, service.ErrStorageUnavailable):
		response.Fail(c, http.StatusServiceUnavailable, response.ErrStorageUnavailable)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
