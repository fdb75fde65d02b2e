package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/stemsi/quizdeck/internal/model"
	"github.com/stemsi/quizdeck/internal/quiz"
)

func arithmetic() []model.Question {
	return []model.Question{
		{Prompt: "1. What is 2+2?", Options: []string{"3", "4"}, CorrectOption: "4"},
		{Prompt: "2. What is 3+3?", Options: []string{"6", "7", "8"}, CorrectOption: "6"},
	}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestPlayerCommitFirstAnswerOnly(t *testing.T) {
	m := NewPlayer("Arithmetic", arithmetic(), Options{NoColor: true})

	m = press(t, m, "down", "enter")
	if m.Session().Score != 1 || m.status != "Correct!" {
		t.Fatalf("score=%d status=%q", m.Session().Score, m.status)
	}

	m = press(t, m, "up", "enter")
	if m.Session().Score != 1 || m.status != "Already answered." {
		t.Fatalf("second answer changed state: score=%d status=%q", m.Session().Score, m.status)
	}
	if got := m.Session().Answers[0]; got != "4" {
		t.Fatalf("answer = %q", got)
	}
}

func TestPlayerNavigation(t *testing.T) {
	m := NewPlayer("Arithmetic", arithmetic(), Options{NoColor: true})

	m = press(t, m, "left")
	if m.Session().Position != 0 {
		t.Fatalf("previous at first question moved")
	}
	m = press(t, m, "right", "right")
	if m.Session().Position != 1 {
		t.Fatalf("position = %d, want clamped at 1", m.Session().Position)
	}

	// Returning to an answered question puts the cursor on its answer.
	m = press(t, m, "left", "down", "enter", "right", "left")
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.cursor)
	}
}

func TestPlayerJump(t *testing.T) {
	m := NewPlayer("Arithmetic", arithmetic(), Options{NoColor: true})

	m = press(t, m, "g", "2", "enter")
	if m.jumping || m.Session().Position != 1 {
		t.Fatalf("jump to 2: jumping=%v position=%d", m.jumping, m.Session().Position)
	}

	m = press(t, m, "g", "9", "enter")
	if m.Session().Position != 1 || !strings.Contains(m.status, "no question") {
		t.Fatalf("jump out of range: position=%d status=%q", m.Session().Position, m.status)
	}

	// q while typing a number does not quit.
	m = press(t, m, "g", "q", "esc")
	if m.jumping || m.jumpInput != "" {
		t.Fatalf("jump input = %q", m.jumpInput)
	}
}

func TestPlayerModeToggleKeepsScore(t *testing.T) {
	reverse := func(n int, swap func(i, j int)) {
		for i := 0; i < n/2; i++ {
			swap(i, n-1-i)
		}
	}
	m := NewPlayer("Arithmetic", arithmetic(), Options{NoColor: true, Shuffler: reverse})

	m = press(t, m, "down", "enter", "m")
	sess := m.Session()
	if sess.Mode != quiz.ModeRandom || sess.Score != 1 || sess.Position != 0 {
		t.Fatalf("after toggle: mode=%s score=%d position=%d", sess.Mode, sess.Score, sess.Position)
	}
	if sess.Order[0] != 1 {
		t.Fatalf("order = %v", sess.Order)
	}
}

func TestPlayerView(t *testing.T) {
	m := NewPlayer("Arithmetic", arithmetic(), Options{NoColor: true})
	m = press(t, m, "enter")

	view := m.View()
	for _, want := range []string{"Arithmetic", "Question 1/2", "What is 2+2?", "A. 3  ✗", "B. 4  ✓"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestPlayerEmptyTopic(t *testing.T) {
	m := NewPlayer("Empty", nil, Options{NoColor: true})
	m = press(t, m, "enter", "right", "m")
	if !strings.Contains(m.View(), "no questions") {
		t.Fatalf("view = %s", m.View())
	}
}

type stubSource struct {
	topics    []model.Topic
	questions []model.Question
	err       error
}

func (s stubSource) ListTopics(context.Context) ([]model.Topic, error) {
	return s.topics, s.err
}

func (s stubSource) LoadQuestions(context.Context, uuid.UUID) ([]model.Question, error) {
	return s.questions, s.err
}

func TestBrowserPicksTopic(t *testing.T) {
	topic := model.Topic{ID: uuid.New(), Name: "Arithmetic", QuestionCount: 2, CreatedAt: time.Now()}
	src := stubSource{topics: []model.Topic{topic}, questions: arithmetic()}
	m := NewBrowser(src, Options{NoColor: true})

	next, _ := m.Update(m.Init()())
	m = next.(Model)
	if m.phase != phasePick || !strings.Contains(m.View(), "Arithmetic") {
		t.Fatalf("topics not listed: %s", m.View())
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if cmd == nil {
		t.Fatalf("enter should load questions")
	}
	next, _ = m.Update(cmd())
	m = next.(Model)
	if m.phase != phasePlay || m.Session().TopicID != topic.ID || len(m.Session().Questions) != 2 {
		t.Fatalf("not playing picked topic: phase=%d", m.phase)
	}

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	if m.Session() != nil || cmd == nil {
		t.Fatalf("esc should return to the topic list")
	}
}

func TestBrowserStorageDown(t *testing.T) {
	m := NewBrowser(stubSource{err: errors.New("connection refused")}, Options{NoColor: true})
	next, _ := m.Update(m.Init()())
	m = next.(Model)
	if !strings.Contains(m.View(), "Storage unavailable") {
		t.Fatalf("view = %s", m.View())
	}
}
