package parser

import "strings"

// Kind is what a non-empty paragraph contributes to the question stream.
type Kind int

const (
	KindOption Kind = iota
	KindQuestion
)

func (k Kind) String() string {
	if k == KindQuestion {
		return "question"
	}
	return "option"
}

// Rule names the cue that decided a classification.
type Rule int

const (
	RuleNone Rule = iota
	// RuleNumbered: the text matches a question pattern ("1.", "Câu 3").
	RuleNumbered
	// RuleEmphasized: the paragraph is emphasized and carries no option label.
	RuleEmphasized
)

// Classification is the result of classifying one paragraph.
type Classification struct {
	Kind Kind
	Rule Rule
}

// Classify decides whether p opens a new question or belongs to the open one.
//
//	numbered | emphasized | option label | result
//	---------+------------+--------------+----------------------
//	yes      | any        | any          | question (numbered)
//	no       | yes        | no           | question (emphasized)
//	no       | yes        | yes          | option
//	no       | no         | any          | option
func (c *Cues) Classify(p Paragraph) Classification {
	text := strings.TrimSpace(p.Text)
	if c.numbered(text) {
		return Classification{Kind: KindQuestion, Rule: RuleNumbered}
	}
	if c.emphasized(p) && !c.labelled(text) {
		return Classification{Kind: KindQuestion, Rule: RuleEmphasized}
	}
	return Classification{Kind: KindOption, Rule: RuleNone}
}

// IsCorrect reports whether an option paragraph is styled as the answer.
func (c *Cues) IsCorrect(p Paragraph) bool {
	if c.styled(p) {
		return true
	}
	if p.anyRun(func(r Run) bool { return r.Bold || r.Underline }) {
		return true
	}
	if p.anyRun(func(r Run) bool { return r.Color != nil && c.inPalette(*r.Color) }) {
		return true
	}
	return c.CorrectPrefix != "" && strings.HasPrefix(strings.TrimSpace(p.Text), c.CorrectPrefix)
}

// OptionText strips the correct-answer prefix and option label from text.
func (c *Cues) OptionText(text string) string {
	text = c.unmark(strings.TrimSpace(text))
	if c.OptionLabel != nil {
		if loc := c.OptionLabel.FindStringIndex(text); loc != nil && loc[0] == 0 {
			text = text[loc[1]:]
		}
	}
	return strings.TrimSpace(text)
}

func (c *Cues) numbered(text string) bool {
	for _, re := range c.QuestionPatterns {
		if re != nil && re.MatchString(text) {
			return true
		}
	}
	return false
}

func (c *Cues) emphasized(p Paragraph) bool {
	return c.styled(p) || p.anyRun(func(r Run) bool { return r.Bold })
}

// styled reports whether the paragraph style, or a run's character style,
// carries the emphasis marker.
func (c *Cues) styled(p Paragraph) bool {
	if c.EmphasisStyle == "" {
		return false
	}
	if strings.Contains(p.StyleName, c.EmphasisStyle) {
		return true
	}
	return p.anyRun(func(r Run) bool { return strings.Contains(r.StyleName, c.EmphasisStyle) })
}

// labelled reports whether text starts with an option label, looking past a
// leading correct-answer prefix so "*B. 4" still reads as an option.
func (c *Cues) labelled(text string) bool {
	if c.OptionLabel == nil {
		return false
	}
	loc := c.OptionLabel.FindStringIndex(c.unmark(text))
	return loc != nil && loc[0] == 0
}

func (c *Cues) unmark(text string) string {
	if c.CorrectPrefix == "" || !strings.HasPrefix(text, c.CorrectPrefix) {
		return text
	}
	return strings.TrimSpace(strings.TrimPrefix(text, c.CorrectPrefix))
}

func (c *Cues) inPalette(color RGB) bool {
	for _, want := range c.CorrectColors {
		if color == want {
			return true
		}
	}
	return false
}
