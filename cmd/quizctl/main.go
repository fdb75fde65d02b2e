package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/quizdeck/internal/config"
	"github.com/stemsi/quizdeck/internal/database"
	"github.com/stemsi/quizdeck/internal/logger"
	"github.com/stemsi/quizdeck/internal/model"
	"github.com/stemsi/quizdeck/internal/parser"
	"github.com/stemsi/quizdeck/internal/service"
	"golang.org/x/term"
)

const usage = `Usage: quizctl <command> [flags]

Commands:
  list                         List stored topics
  import [-name N] FILE.docx   Parse a document and store it as a topic
  preview FILE.docx            Parse a document and print its questions
  stats TOPIC_ID               Show answer totals for a topic
  delete TOPIC_ID              Delete a topic (asks for the admin secret)
  hash-secret                  Print a bcrypt hash for ADMIN_SECRET_HASH`

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(2)
	}

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	// stdout is for command output.
	log := logger.SetupWriter(os.Stderr, cfg.LogLevel, "pretty")

	cmd, args := os.Args[1], os.Args[2:]

	var err error
	switch cmd {
	case "hash-secret":
		err = hashSecret()
	case "preview":
		err = preview(cfg, log, args)
	case "list", "import", "stats", "delete":
		err = withTopics(cfg, log, func(ctx context.Context, topics *service.TopicService) error {
			switch cmd {
			case "list":
				return list(ctx, topics)
			case "import":
				return importDoc(ctx, topics, args)
			case "stats":
				return stats(ctx, topics, args)
			default:
				return deleteTopic(ctx, cfg, topics, args)
			}
		})
	case "-h", "--help", "help":
		fmt.Println(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s\n", cmd, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func loadCues(cfg *config.Config) (*parser.Cues, error) {
	if cfg.CuesFile == "" {
		return parser.DefaultCues(), nil
	}
	return parser.LoadCues(cfg.CuesFile)
}

// withTopics opens storage for the duration of fn.
func withTopics(cfg *config.Config, log zerolog.Logger, fn func(context.Context, *service.TopicService) error) error {
	cues, err := loadCues(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	storage, err := database.OpenStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer storage.Close()

	return fn(ctx, service.NewTopicService(storage.Topics, storage.Answers, cues, cfg.MaxUploadBytes, log))
}

func list(ctx context.Context, topics *service.TopicService) error {
	all, err := topics.ListTopics(ctx)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Println(mutedStyle.Render("No topics."))
		return nil
	}

	idCol := lipgloss.NewStyle().Width(38)
	nameCol := lipgloss.NewStyle().Width(40)
	countCol := lipgloss.NewStyle().Width(11)
	fmt.Println(headerStyle.Render(idCol.Render("ID") + nameCol.Render("NAME") + countCol.Render("QUESTIONS") + "IMPORTED"))
	for _, t := range all {
		fmt.Println(idCol.Render(t.ID.String()) +
			nameCol.Render(truncate(t.Name, 38)) +
			countCol.Render(fmt.Sprint(t.QuestionCount)) +
			t.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func importDoc(ctx context.Context, topics *service.TopicService, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	name := fs.String("name", "", "Topic name (default: file name)")
	_ = fs.Parse(args)
	if fs.NArg() != 1 {
		return errors.New("import needs exactly one .docx file")
	}
	path := fs.Arg(0)

	if !strings.EqualFold(filepath.Ext(path), ".docx") {
		return fmt.Errorf("%w: %s", service.ErrUnsupportedFileType, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	topic, questions, err := topics.Import(ctx, f, path, *name)
	if err != nil {
		return err
	}
	fmt.Println(okStyle.Render(fmt.Sprintf("Imported %q with %d questions", topic.Name, len(questions))))
	fmt.Println(mutedStyle.Render("ID: " + topic.ID.String()))
	return nil
}

func preview(cfg *config.Config, log zerolog.Logger, args []string) error {
	if len(args) != 1 {
		return errors.New("preview needs exactly one .docx file")
	}
	cues, err := loadCues(cfg)
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	topics := service.NewTopicService(nil, nil, cues, cfg.MaxUploadBytes, log)
	questions, err := topics.ParseDocument(f)
	if err != nil {
		return err
	}
	printQuestions(questions)
	return nil
}

func printQuestions(questions []model.Question) {
	if len(questions) == 0 {
		fmt.Println(mutedStyle.Render("No questions found."))
		return
	}
	for i, q := range questions {
		fmt.Println(headerStyle.Render(fmt.Sprintf("[%d] %s", i+1, q.Prompt)))
		for j, opt := range q.Options {
			line := fmt.Sprintf("    %c. %s", 'A'+rune(j%26), opt)
			if opt == q.CorrectOption {
				line = okStyle.Render(line + "  (correct)")
			}
			fmt.Println(line)
		}
	}
	fmt.Println(mutedStyle.Render(fmt.Sprintf("%d questions", len(questions))))
}

func stats(ctx context.Context, topics *service.TopicService, args []string) error {
	id, err := topicArg(args)
	if err != nil {
		return err
	}
	topic, err := topics.GetTopic(ctx, id)
	if err != nil {
		return err
	}
	s, err := topics.Stats(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d answers, %d correct\n", topic.Name, s.Answers, s.Correct)
	return nil
}

func deleteTopic(ctx context.Context, cfg *config.Config, topics *service.TopicService, args []string) error {
	id, err := topicArg(args)
	if err != nil {
		return err
	}

	gate := service.NewAdminGate(cfg.AdminSecret, cfg.AdminSecretHash)
	if !gate.Enabled() {
		return errors.New("deletion is disabled: set ADMIN_SECRET or ADMIN_SECRET_HASH")
	}

	secret, err := readSecret("Admin secret: ")
	if err != nil {
		return err
	}
	if !gate.Authorize(secret) {
		return errors.New("admin secret is incorrect")
	}

	if err := topics.DeleteTopic(ctx, id); err != nil {
		return err
	}
	fmt.Println(okStyle.Render("Deleted " + id.String()))
	return nil
}

func hashSecret() error {
	secret, err := readSecret("Enter Secret: ")
	if err != nil {
		return err
	}
	if len(secret) < 8 {
		return errors.New("secret must be at least 8 characters")
	}
	confirm, err := readSecret("Confirm Secret: ")
	if err != nil {
		return err
	}
	if confirm != secret {
		return errors.New("secrets do not match")
	}

	hash, err := service.HashSecret(secret)
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}

func readSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // Newline after secret input
	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}
	return string(b), nil
}

func topicArg(args []string) (uuid.UUID, error) {
	if len(args) != 1 {
		return uuid.Nil, errors.New("expected one topic ID")
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid topic ID %q", args[0])
	}
	return id, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
