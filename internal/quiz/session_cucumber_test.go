package quiz

import (
	"fmt"
	"io"
	"sort"
	"testing"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/stemsi/quizdeck/internal/model"
)

func TestSessionFeatures(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "quiz-session",
		ScenarioInitializer: initializeSessionScenario,
		Options: &godog.Options{
			Format:   "progress",
			Paths:    []string{"features"},
			Output:   io.Discard,
			TestingT: t,
			Strict:   true,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("session features failed")
	}
}

type sessionWorld struct {
	questions []model.Question
	session   *Session
}

func initializeSessionScenario(ctx *godog.ScenarioContext) {
	w := &sessionWorld{}

	ctx.Step(`^a topic with (\d+) questions whose answer is "([^"]*)"$`, w.aTopic)
	ctx.Step(`^I load the topic in (sequential|random) mode$`, w.load)
	ctx.Step(`^I answer "([^"]*)"$`, w.answer)
	ctx.Step(`^I switch to (sequential|random) mode$`, w.switchMode)
	ctx.Step(`^I go to the next question$`, w.next)
	ctx.Step(`^I go to the previous question$`, w.previous)
	ctx.Step(`^I jump to question (\d+)$`, w.jump)
	ctx.Step(`^the score is (\d+)$`, w.scoreIs)
	ctx.Step(`^(\d+) questions? (?:is|are) answered$`, w.answeredCount)
	ctx.Step(`^question (\d+) is answered with "([^"]*)"$`, w.answeredWith)
	ctx.Step(`^the position is question (\d+)$`, w.positionIs)
	ctx.Step(`^the order is a permutation of the questions$`, w.orderIsPermutation)
}

func (w *sessionWorld) aTopic(n int, answer string) error {
	w.questions = make([]model.Question, n)
	for i := range w.questions {
		w.questions[i] = model.Question{
			Prompt:        fmt.Sprintf("%d. question", i+1),
			Options:       []string{answer, "wrong", "other"},
			CorrectOption: answer,
		}
	}
	return nil
}

func (w *sessionWorld) load(mode string) error {
	w.session = New("feature")
	w.session.SetShuffler(SeededShuffler(1))
	w.session.Load(uuid.New(), "feature topic", w.questions, ParseMode(mode))
	return nil
}

func (w *sessionWorld) answer(option string) error {
	w.session.CommitAnswer(option)
	return nil
}

func (w *sessionWorld) switchMode(mode string) error {
	w.session.ChangeMode(ParseMode(mode))
	return nil
}

func (w *sessionWorld) next() error {
	w.session.Next()
	return nil
}

func (w *sessionWorld) previous() error {
	w.session.Previous()
	return nil
}

func (w *sessionWorld) jump(number int) error {
	w.session.JumpTo(number - 1)
	return nil
}

func (w *sessionWorld) scoreIs(want int) error {
	if w.session.Score != want {
		return fmt.Errorf("score is %d, want %d", w.session.Score, want)
	}
	return nil
}

func (w *sessionWorld) answeredCount(want int) error {
	if got := len(w.session.Answers); got != want {
		return fmt.Errorf("%d questions answered, want %d", got, want)
	}
	return nil
}

func (w *sessionWorld) answeredWith(number int, want string) error {
	got, ok := w.session.Answers[number-1]
	if !ok {
		return fmt.Errorf("question %d has no answer", number)
	}
	if got != want {
		return fmt.Errorf("question %d answered %q, want %q", number, got, want)
	}
	return nil
}

func (w *sessionWorld) positionIs(number int) error {
	if got := w.session.Position + 1; got != number {
		return fmt.Errorf("position is question %d, want %d", got, number)
	}
	return nil
}

func (w *sessionWorld) orderIsPermutation() error {
	order := append([]int(nil), w.session.Order...)
	sort.Ints(order)
	if len(order) != len(w.questions) {
		return fmt.Errorf("order has %d entries for %d questions", len(order), len(w.questions))
	}
	for i, v := range order {
		if v != i {
			return fmt.Errorf("order %v is not a permutation", w.session.Order)
		}
	}
	return nil
}
