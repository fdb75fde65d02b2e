// Package quiz holds the per-user quiz session: presentation order,
// position, committed answers, and score over a fixed question set.
//
// Every operation completes synchronously and invalid requests are no-ops
// that report false instead of failing.
package quiz

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/stemsi/quizdeck/internal/model"
)

// Mode is the presentation order of a session.
type Mode string

const (
	ModeSequential Mode = "sequential"
	ModeRandom     Mode = "random"
)

// ParseMode maps a request value to a Mode. Anything unknown is sequential.
func ParseMode(s string) Mode {
	if Mode(s) == ModeRandom {
		return ModeRandom
	}
	return ModeSequential
}

// State is the lifecycle state of a session. There is no completed state:
// reaching the last question does not lock navigation.
type State string

const (
	StateNotStarted State = "NOT_STARTED"
	StateInProgress State = "IN_PROGRESS"
)

// Shuffler permutes n elements through swap, like rand.Shuffle.
type Shuffler func(n int, swap func(i, j int))

// SeededShuffler returns a Shuffler backed by its own source.
func SeededShuffler(seed int64) Shuffler {
	return rand.New(rand.NewSource(seed)).Shuffle
}

// Session is one user's quiz over a loaded question set. Answers are keyed
// by underlying question index, so reordering never moves them.
type Session struct {
	ID        string           `json:"id"`
	TopicID   uuid.UUID        `json:"topic_id"`
	TopicName string           `json:"topic_name"`
	Questions []model.Question `json:"questions"`
	Order     []int            `json:"order"`
	Position  int              `json:"position"`
	Answers   map[int]string   `json:"answers"`
	Score     int              `json:"score"`
	Mode      Mode             `json:"mode"`

	shuffle Shuffler
}

// New returns an empty session.
func New(id string) *Session {
	return &Session{ID: id, Answers: map[int]string{}, Mode: ModeSequential}
}

// SetShuffler replaces the randomness used by random mode. A nil shuffler
// restores the process-wide source.
func (s *Session) SetShuffler(shuffle Shuffler) {
	s.shuffle = shuffle
}

// State reports whether a question set has been loaded.
func (s *Session) State() State {
	if len(s.Questions) == 0 {
		return StateNotStarted
	}
	return StateInProgress
}

// Load replaces the question set and resets answers, score and position.
func (s *Session) Load(topicID uuid.UUID, topicName string, questions []model.Question, mode Mode) {
	s.TopicID = topicID
	s.TopicName = topicName
	s.Questions = questions
	s.Answers = map[int]string{}
	s.Score = 0
	s.Mode = mode
	s.Order = s.buildOrder(mode)
	s.Position = 0
}

// ChangeMode recomputes the order for the current questions. Answers and
// score are kept; position returns to the first question.
func (s *Session) ChangeMode(mode Mode) bool {
	if s.State() == StateNotStarted {
		return false
	}
	s.Mode = mode
	s.Order = s.buildOrder(mode)
	s.Position = 0
	return true
}

// JumpTo moves to a 0-based presentation index. Out-of-range requests are
// rejected and leave the position unchanged.
func (s *Session) JumpTo(index int) bool {
	if index < 0 || index >= len(s.Order) {
		return false
	}
	s.Position = index
	return true
}

// Next advances one question, stopping at the last.
func (s *Session) Next() bool {
	if s.Position+1 >= len(s.Order) {
		return false
	}
	s.Position++
	return true
}

// Previous steps back one question, stopping at the first.
func (s *Session) Previous() bool {
	if s.Position <= 0 {
		return false
	}
	s.Position--
	return true
}

// Commit is the outcome of CommitAnswer.
type Commit struct {
	Applied       bool
	Correct       bool
	QuestionIndex int
}

// CommitAnswer records selected for the current question if it has no
// answer yet. The first answer is final. Selections that are not one of the
// question's options are ignored.
func (s *Session) CommitAnswer(selected string) Commit {
	idx, q, ok := s.Current()
	if !ok {
		return Commit{QuestionIndex: -1}
	}
	if _, answered := s.Answers[idx]; answered || !q.HasOption(selected) {
		return Commit{QuestionIndex: idx}
	}
	if s.Answers == nil {
		s.Answers = map[int]string{}
	}
	s.Answers[idx] = selected
	correct := selected == q.CorrectOption
	if correct {
		s.Score++
	}
	return Commit{Applied: true, Correct: correct, QuestionIndex: idx}
}

// Current returns the underlying index and question at the current position.
func (s *Session) Current() (int, model.Question, bool) {
	if s.Position < 0 || s.Position >= len(s.Order) {
		return -1, model.Question{}, false
	}
	idx := s.Order[s.Position]
	if idx < 0 || idx >= len(s.Questions) {
		return -1, model.Question{}, false
	}
	return idx, s.Questions[idx], true
}

func (s *Session) buildOrder(mode Mode) []int {
	order := make([]int, len(s.Questions))
	for i := range order {
		order[i] = i
	}
	if mode == ModeRandom {
		shuffle := s.shuffle
		if shuffle == nil {
			shuffle = rand.Shuffle
		}
		shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}
	return order
}
