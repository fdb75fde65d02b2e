// Package parser turns loosely structured, formatted paragraphs into
// multiple-choice question records.
//
// Parsing never fails. Paragraphs that fit no question are dropped, questions
// with fewer than two options are dropped, and a question with no styled
// answer gets its first option as the answer. Callers can rely on a usable
// (possibly empty) result for any input.
package parser

import (
	"strings"

	"github.com/stemsi/quizdeck/internal/model"
)

// Parse classifies paragraphs with the default cues.
func Parse(paragraphs []Paragraph) []model.Question {
	return DefaultCues().Parse(paragraphs)
}

// Parse segments paragraphs into questions using c. A nil receiver uses the
// default cues.
func (c *Cues) Parse(paragraphs []Paragraph) []model.Question {
	if c == nil {
		c = DefaultCues()
	}
	b := builder{cues: c, out: []model.Question{}}
	for _, p := range paragraphs {
		b.feed(p)
	}
	b.close()
	return b.out
}

// draft is the question currently collecting options.
type draft struct {
	q          model.Question
	hasCorrect bool
}

type builder struct {
	cues *Cues
	open *draft
	out  []model.Question
}

func (b *builder) feed(p Paragraph) {
	text := strings.TrimSpace(p.Text)
	if text == "" {
		return
	}

	cl := b.cues.Classify(p)
	if cl.Kind == KindQuestion {
		b.close()
		prompt := text
		if cl.Rule == RuleEmphasized {
			prompt = b.cues.PromptLabel + text
		}
		b.open = &draft{q: model.Question{Prompt: prompt, Options: []string{}}}
		return
	}

	// Option lines before the first question have nothing to attach to.
	if b.open == nil {
		return
	}
	// A bare label such as "A." still counts as an (empty) option.
	option := b.cues.OptionText(text)
	b.open.q.Options = append(b.open.q.Options, option)
	if !b.open.hasCorrect && b.cues.IsCorrect(p) {
		b.open.q.CorrectOption = option
		b.open.hasCorrect = true
	}
}

// close finalizes the open question, keeping it only with enough options.
func (b *builder) close() {
	d := b.open
	b.open = nil
	if d == nil || len(d.q.Options) < model.MinOptions {
		return
	}
	if !d.hasCorrect {
		d.q.CorrectOption = d.q.Options[0]
	}
	b.out = append(b.out, d.q)
}
