package model

// Question is a single multiple-choice record produced by the document parser.
// A Question is only considered valid with at least two options and a
// CorrectOption that is one of them.
type Question struct {
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectOption string   `json:"correct_option"`
}

// MinOptions is the fewest options a question needs to be kept.
const MinOptions = 2

// Valid reports whether q has enough options and a correct option that is one of them.
func (q Question) Valid() bool {
	if len(q.Options) < MinOptions {
		return false
	}
	return q.HasOption(q.CorrectOption)
}

// HasOption reports whether option is one of q's choices.
func (q Question) HasOption(option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}
