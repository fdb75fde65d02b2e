package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/quizdeck/internal/config"
	"github.com/stemsi/quizdeck/internal/database"
	"github.com/stemsi/quizdeck/internal/handler"
	"github.com/stemsi/quizdeck/internal/logger"
	"github.com/stemsi/quizdeck/internal/parser"
	"github.com/stemsi/quizdeck/internal/repository"
	"github.com/stemsi/quizdeck/internal/router"
	"github.com/stemsi/quizdeck/internal/service"
	"github.com/stemsi/quizdeck/internal/validator"
	"github.com/stemsi/quizdeck/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Str("storage", cfg.StorageDriver).
		Msg("Starting QuizDeck")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Load Parser Cues ──────────────────────────────────────────────
	cues := parser.DefaultCues()
	if cfg.CuesFile != "" {
		loaded, err := parser.LoadCues(cfg.CuesFile)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.CuesFile).Msg("Failed to load parser cues")
		}
		cues = loaded
		log.Info().Str("path", cfg.CuesFile).Msg("Parser cues loaded")
	}

	// ─── Connect Storage (Topic Store + Optional Redis) ────────────────
	storage, err := database.OpenStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer storage.Close()

	// ─── Session Store & Answer Recorder ───────────────────────────────
	var sessions repository.SessionStore
	var recorder service.AnswerRecorder
	if storage.Redis != nil {
		sessions = repository.NewRedisSessionStore(storage.Redis, cfg.SessionTTL)
	} else {
		sessions = repository.NewMemorySessionStore(cfg.SessionTTL)
	}
	if cfg.AnswerLogEnabled() {
		recorder = service.NewQueueRecorder(storage.Redis)
	} else {
		recorder = service.NewDirectRecorder(storage.Answers)
	}

	if cfg.AdminSecret == "" && cfg.AdminSecretHash == "" {
		log.Warn().Msg("No ADMIN_SECRET configured, topic deletion is disabled")
	}

	// ─── Initialize Services ──────────────────────────────────────────
	tokens := service.NewTokenService(cfg.JWTSecret)
	gate := service.NewAdminGate(cfg.AdminSecret, cfg.AdminSecretHash)
	topicService := service.NewTopicService(storage.Topics, storage.Answers, cues, cfg.MaxUploadBytes, log)
	quizService := service.NewQuizService(topicService, sessions, tokens, recorder, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Topic:  handler.NewTopicHandler(topicService),
		Quiz:   handler.NewQuizHandler(quizService),
		Admin:  handler.NewAdminHandler(gate),
		WS:     handler.NewWSHandler(quizService, log, cfg.AllowedOrigins),
		System: handler.NewSystemHandler(storage.Redis, cfg.StorageDriver, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	if cfg.AnswerLogEnabled() {
		answerWorker := worker.NewAnswerLogWorker(storage.Answers, storage.Redis, log)
		workers.Add(1)
		go func() {
			defer workers.Done()
			answerWorker.Start(workerCtx)
		}()
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(tokens, gate, handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for the final flush.
	workerCancel()
	workers.Wait()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
