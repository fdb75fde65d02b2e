package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/quizdeck/internal/config"
	"github.com/stemsi/quizdeck/internal/handler"
	"github.com/stemsi/quizdeck/internal/middleware"
	"github.com/stemsi/quizdeck/internal/response"
	"github.com/stemsi/quizdeck/internal/service"
)

// questionsMaxAge is how long clients may cache a topic's questions.
// Topics are immutable once saved, so only deletion can stale this.
const questionsMaxAge = 5 * time.Minute

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Topic  *handler.TopicHandler
	Quiz   *handler.QuizHandler
	Admin  *handler.AdminHandler
	WS     *handler.WSHandler
	System *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	tokens *service.TokenService,
	gate *service.AdminGate,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.MaxMultipartMemory = cfg.MaxUploadBytes

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", middleware.HeaderAdminSecret}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Retry-After"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	importLimiter := middleware.NewRateLimiter(cfg.ImportPerMinute, time.Minute)

	// ─── 1. Topics (Public, Deletion Gated) ────────────────────────────
	topics := router.Group("/api/v1/topics")
	{
		topics.GET("", handlers.Topic.ListTopics)
		topics.GET("/:id/questions", middleware.CacheControl(questionsMaxAge), handlers.Topic.GetQuestions)
		topics.GET("/:id/stats", handlers.Topic.GetStats)
		topics.POST("/import", importLimiter.Middleware(), handlers.Topic.ImportTopic)
		topics.POST("/preview", importLimiter.Middleware(), handlers.Topic.PreviewDocument)
		topics.DELETE("/:id", middleware.RequireAdminSecret(gate), handlers.Topic.DeleteTopic)
	}

	// ─── 2. Admin Gate ─────────────────────────────────────────────────
	router.POST("/api/v1/admin/verify", handlers.Admin.Verify)
	router.GET("/api/v1/system/status", handlers.System.Status)

	// ─── 3. Quiz Sessions (Session Token) ──────────────────────────────
	router.POST("/api/v1/quiz/sessions", middleware.NoStore(), handlers.Quiz.StartSession)

	session := router.Group("/api/v1/quiz/session")
	session.Use(middleware.NoStore(), middleware.RequireSessionToken(tokens))
	{
		session.GET("", handlers.Quiz.GetSnapshot)
		session.POST("/answer", handlers.Quiz.CommitAnswer)
		session.POST("/next", handlers.Quiz.Next)
		session.POST("/previous", handlers.Quiz.Previous)
		session.POST("/jump", handlers.Quiz.Jump)
		session.PUT("/mode", handlers.Quiz.ChangeMode)
		session.DELETE("", handlers.Quiz.EndSession)
	}

	// ─── 4. WebSocket (Session Token) ──────────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireSessionToken(tokens))
	{
		ws.GET("/quiz/session", handlers.WS.QuizSessionStream)
	}

	return router
}
