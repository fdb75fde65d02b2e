// Package tui is a terminal quiz player built on Bubble Tea. It drives a
// quiz.Session directly, either over a decoded document or over topics
// picked from storage.
package tui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/stemsi/quizdeck/internal/model"
	"github.com/stemsi/quizdeck/internal/quiz"
)

// TopicSource lists stored topics and loads their questions.
// *service.TopicService satisfies it.
type TopicSource interface {
	ListTopics(ctx context.Context) ([]model.Topic, error)
	LoadQuestions(ctx context.Context, topicID uuid.UUID) ([]model.Question, error)
}

// Options configures the player.
type Options struct {
	NoColor bool
	Mode    quiz.Mode
	// Shuffler overrides the randomness of random mode.
	Shuffler quiz.Shuffler
}

type phase int

const (
	phasePick phase = iota
	phaseLoading
	phasePlay
)

// Model is the Bubble Tea model of the player.
type Model struct {
	source TopicSource
	opts   Options
	phase  phase

	topics []model.Topic
	table  table.Model

	session *quiz.Session
	cursor  int

	jumping   bool
	jumpInput string

	status string
	err    error

	keys keyMap
	help help.Model
}

// NewPlayer plays a fixed question set, such as one parsed from a local file.
func NewPlayer(name string, questions []model.Question, opts Options) Model {
	m := newModel(nil, opts)
	m.start(uuid.Nil, name, questions)
	return m
}

// NewBrowser lets the user pick a stored topic, then plays it. Esc returns
// to the topic list.
func NewBrowser(source TopicSource, opts Options) Model {
	m := newModel(source, opts)
	m.phase = phaseLoading
	m.status = "Loading topics..."
	return m
}

func newModel(source TopicSource, opts Options) Model {
	if opts.Mode == "" {
		opts.Mode = quiz.ModeSequential
	}
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Topic", Width: 40},
			{Title: "Questions", Width: 10},
			{Title: "Imported", Width: 16},
		}),
		table.WithRows([]table.Row{}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	t.SetStyles(tableStyles(opts.NoColor))
	return Model{
		source: source,
		opts:   opts,
		table:  t,
		keys:   defaultKeyMap(),
		help:   help.New(),
	}
}

// Session exposes the active session, or nil while picking a topic.
func (m Model) Session() *quiz.Session {
	return m.session
}

type topicsLoadedMsg struct {
	topics []model.Topic
	err    error
}

type questionsLoadedMsg struct {
	topic     model.Topic
	questions []model.Question
	err       error
}

// Init loads the topic list when browsing storage.
func (m Model) Init() tea.Cmd {
	if m.source == nil {
		return nil
	}
	return loadTopics(m.source)
}

func loadTopics(source TopicSource) tea.Cmd {
	return func() tea.Msg {
		topics, err := source.ListTopics(context.Background())
		return topicsLoadedMsg{topics: topics, err: err}
	}
}

func loadQuestions(source TopicSource, topic model.Topic) tea.Cmd {
	return func() tea.Msg {
		questions, err := source.LoadQuestions(context.Background(), topic.ID)
		return questionsLoadedMsg{topic: topic, questions: questions, err: err}
	}
}

// Update handles key presses and load results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.table.SetHeight(max(msg.Height-6, 3))
		return m, nil

	case topicsLoadedMsg:
		m.phase = phasePick
		m.err = msg.err
		m.topics = msg.topics
		m.table.SetRows(topicRows(msg.topics))
		m.status = ""
		if msg.err != nil {
			m.status = "Storage unavailable, no topics to show."
		} else if len(msg.topics) == 0 {
			m.status = "No topics yet. Import a document with quizctl."
		}
		return m, nil

	case questionsLoadedMsg:
		if msg.err != nil {
			m.phase = phasePick
			m.err = msg.err
			m.status = "Could not load " + msg.topic.Name + "."
			return m, nil
		}
		m.err = nil
		m.start(msg.topic.ID, msg.topic.Name, msg.questions)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) && !m.jumping {
			return m, tea.Quit
		}
		switch m.phase {
		case phasePick:
			return m.updatePick(msg)
		case phasePlay:
			return m.updatePlay(msg)
		}
	}
	return m, nil
}

func (m Model) updatePick(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Commit) {
		i := m.table.Cursor()
		if i < 0 || i >= len(m.topics) {
			return m, nil
		}
		topic := m.topics[i]
		m.phase = phaseLoading
		m.status = "Loading " + topic.Name + "..."
		return m, loadQuestions(m.source, topic)
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) updatePlay(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.jumping {
		return m.updateJump(msg), nil
	}

	_, q, ok := m.session.Current()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if ok && m.cursor < len(q.Options)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Commit):
		if !ok || m.cursor >= len(q.Options) {
			return m, nil
		}
		c := m.session.CommitAnswer(q.Options[m.cursor])
		switch {
		case !c.Applied:
			m.status = "Already answered."
		case c.Correct:
			m.status = "Correct!"
		default:
			m.status = "Wrong. The answer is " + q.CorrectOption + "."
		}
	case key.Matches(msg, m.keys.Prev):
		if m.session.Previous() {
			m.resetCursor()
		}
	case key.Matches(msg, m.keys.Next):
		if m.session.Next() {
			m.resetCursor()
		}
	case key.Matches(msg, m.keys.Jump):
		m.jumping = true
		m.jumpInput = ""
		m.status = ""
	case key.Matches(msg, m.keys.Mode):
		next := quiz.ModeRandom
		if m.session.Mode == quiz.ModeRandom {
			next = quiz.ModeSequential
		}
		if m.session.ChangeMode(next) {
			m.resetCursor()
			m.status = "Order: " + string(next) + "."
		}
	case key.Matches(msg, m.keys.Back):
		if m.source != nil {
			m.session = nil
			m.phase = phaseLoading
			m.status = "Loading topics..."
			return m, loadTopics(m.source)
		}
	}
	return m, nil
}

func (m Model) updateJump(msg tea.KeyMsg) Model {
	switch msg.Type {
	case tea.KeyEsc:
		m.jumping = false
	case tea.KeyBackspace:
		if n := len(m.jumpInput); n > 0 {
			m.jumpInput = m.jumpInput[:n-1]
		}
	case tea.KeyEnter:
		m.jumping = false
		n, err := strconv.Atoi(m.jumpInput)
		if err != nil || !m.session.JumpTo(n-1) {
			m.status = fmt.Sprintf("There is no question %q.", m.jumpInput)
			return m
		}
		m.resetCursor()
		m.status = ""
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if r >= '0' && r <= '9' && len(m.jumpInput) < 6 {
				m.jumpInput += string(r)
			}
		}
	}
	return m
}

// start loads questions into a fresh session and switches to play.
func (m *Model) start(topicID uuid.UUID, name string, questions []model.Question) {
	sess := quiz.New(uuid.NewString())
	sess.SetShuffler(m.opts.Shuffler)
	sess.Load(topicID, name, questions, m.opts.Mode)
	m.session = sess
	m.phase = phasePlay
	m.jumping = false
	m.status = ""
	m.resetCursor()
}

// resetCursor points at the committed answer, or the first option.
func (m *Model) resetCursor() {
	m.cursor = 0
	idx, q, ok := m.session.Current()
	if !ok {
		return
	}
	if selected, answered := m.session.Answers[idx]; answered {
		for i, o := range q.Options {
			if o == selected {
				m.cursor = i
				return
			}
		}
	}
}

func topicRows(topics []model.Topic) []table.Row {
	rows := make([]table.Row, 0, len(topics))
	for _, t := range topics {
		rows = append(rows, table.Row{
			t.Name,
			strconv.Itoa(t.QuestionCount),
			t.CreatedAt.Local().Format("2006-01-02 15:04"),
		})
	}
	return rows
}
