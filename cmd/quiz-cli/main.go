package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stemsi/quizdeck/internal/config"
	"github.com/stemsi/quizdeck/internal/database"
	"github.com/stemsi/quizdeck/internal/docx"
	"github.com/stemsi/quizdeck/internal/logger"
	"github.com/stemsi/quizdeck/internal/parser"
	"github.com/stemsi/quizdeck/internal/quiz"
	"github.com/stemsi/quizdeck/internal/service"
	"github.com/stemsi/quizdeck/internal/tui"
)

func main() {
	var (
		file    string
		mode    string
		logFile string
		noColor bool
	)
	flag.StringVar(&file, "file", "", "Play a local .docx instead of a stored topic")
	flag.StringVar(&mode, "mode", string(quiz.ModeSequential), "Question order: sequential or random")
	flag.StringVar(&logFile, "log", "", "Write logs to this file (default: discard)")
	flag.BoolVar(&noColor, "no-color", false, "Disable colors")
	flag.Parse()

	cfg := config.Load()

	var logOut io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fatalf("open log file: %v", err)
		}
		defer f.Close()
		logOut = f
	}
	log := logger.SetupWriter(logOut, cfg.LogLevel, "json")

	cues := parser.DefaultCues()
	if cfg.CuesFile != "" {
		loaded, err := parser.LoadCues(cfg.CuesFile)
		if err != nil {
			fatalf("load cues %s: %v", cfg.CuesFile, err)
		}
		cues = loaded
	}

	opts := tui.Options{NoColor: noColor, Mode: quiz.ParseMode(mode)}

	var m tui.Model
	if file != "" {
		paragraphs, err := docx.DecodeFile(file)
		if err != nil {
			fatalf("read %s: %v", file, err)
		}
		questions := cues.Parse(paragraphs)
		log.Info().Str("file", file).Int("questions", len(questions)).Msg("Document loaded")
		name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		m = tui.NewPlayer(name, questions, opts)
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		storage, err := database.OpenStorage(ctx, cfg, log)
		cancel()
		if err != nil {
			fatalf("open storage: %v", err)
		}
		defer storage.Close()
		topics := service.NewTopicService(storage.Topics, storage.Answers, cues, cfg.MaxUploadBytes, log)
		m = tui.NewBrowser(topics, opts)
	}

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fatalf("player: %v", err)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "quiz-cli: "+format+"\n", args...)
	os.Exit(1)
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
