package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/quizdeck/internal/middleware"
	"github.com/stemsi/quizdeck/internal/quiz"
	"github.com/stemsi/quizdeck/internal/response"
	"github.com/stemsi/quizdeck/internal/service"
	ws "github.com/stemsi/quizdeck/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler drives a quiz session over a WebSocket.
type WSHandler struct {
	quizService *service.QuizService
	log         zerolog.Logger
	upgrader    websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(quizService *service.QuizService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		quizService: quizService,
		log:         log.With().Str("component", "ws_handler").Logger(),
		upgrader:    buildUpgrader(allowedOrigins),
	}
}

// QuizSessionStream godoc
// WS /ws/v1/quiz/session
// Accepts the same operations as the HTTP session routes as JSON actions.
func (h *WSHandler) QuizSessionStream(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	if sessionID == "" {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	// Reject unknown sessions before upgrading so clients get a normal 404.
	snap, err := h.quizService.Snapshot(c.Request.Context(), sessionID)
	if err != nil {
		failSession(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("session_id", sessionID).Logger()
	wsLog.Info().Msg("Quiz client connected")

	ws.WriteTyped(conn, ws.SnapshotResponse{Event: ws.EventSnapshot, Snapshot: snap})

	for {
		var msg ws.RequestPayload
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		if done := h.dispatch(conn, wsLog, sessionID, msg); done {
			return
		}
	}
}

// dispatch runs one client action. It reports true once the session has
// ended and the connection should close.
func (h *WSHandler) dispatch(conn *websocket.Conn, wsLog zerolog.Logger, sessionID string, msg ws.RequestPayload) bool {
	ctx := context.Background()

	var (
		out service.Outcome
		err error
	)
	switch msg.Action {
	case ws.ActionPing:
		ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
		return false
	case ws.ActionSnapshot:
		snap, err := h.quizService.Snapshot(ctx, sessionID)
		if err != nil {
			return h.writeFailure(conn, wsLog, err)
		}
		ws.WriteTyped(conn, ws.SnapshotResponse{Event: ws.EventSnapshot, Snapshot: snap})
		return false
	case ws.ActionEnd:
		if err := h.quizService.End(ctx, sessionID); err != nil {
			return h.writeFailure(conn, wsLog, err)
		}
		ws.WriteTyped(conn, ws.EndedResponse{Event: ws.EventEnded})
		return true
	case ws.ActionCommit:
		if msg.Option == "" {
			ws.WriteError(conn, string(response.ErrValidation), "option is required")
			return false
		}
		out, err = h.quizService.Commit(ctx, sessionID, msg.Option)
	case ws.ActionNext:
		out, err = h.quizService.Next(ctx, sessionID)
	case ws.ActionPrevious:
		out, err = h.quizService.Previous(ctx, sessionID)
	case ws.ActionJump:
		out, err = h.quizService.Jump(ctx, sessionID, msg.Number)
	case ws.ActionMode:
		if msg.Mode != string(quiz.ModeSequential) && msg.Mode != string(quiz.ModeRandom) {
			ws.WriteError(conn, string(response.ErrValidation), "mode must be sequential or random")
			return false
		}
		out, err = h.quizService.ChangeMode(ctx, sessionID, quiz.ParseMode(msg.Mode))
	default:
		wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
		ws.WriteError(conn, string(response.ErrInvalidPayload), "unknown action: "+string(msg.Action))
		return false
	}

	if err != nil {
		return h.writeFailure(conn, wsLog, err)
	}
	ws.WriteTyped(conn, ws.OutcomeResponse{
		Event:    ws.EventOutcome,
		Action:   msg.Action,
		Applied:  out.Applied,
		Correct:  out.Correct,
		Snapshot: out.Snapshot,
	})
	return false
}

// writeFailure reports a service error. A vanished session closes the
// connection.
func (h *WSHandler) writeFailure(conn *websocket.Conn, wsLog zerolog.Logger, err error) bool {
	if errors.Is(err, service.ErrSessionNotFound) {
		ws.WriteError(conn, string(response.ErrSessionNotFound), response.GetMessage(response.ErrSessionNotFound))
		return true
	}
	wsLog.Error().Err(err).Msg("Session operation failed")
	ws.WriteError(conn, string(response.ErrInternal), response.GetMessage(response.ErrInternal))
	return false
}
