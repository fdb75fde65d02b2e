package quiz

import "github.com/google/uuid"

// Snapshot is what a presentation layer needs to render the current question.
// The correct option is only revealed once the question is answered.
type Snapshot struct {
	SessionID     string    `json:"session_id"`
	TopicID       uuid.UUID `json:"topic_id"`
	TopicName     string    `json:"topic_name"`
	State         State     `json:"state"`
	Mode          Mode      `json:"mode"`
	Number        int       `json:"number"`
	Total         int       `json:"total"`
	QuestionIndex int       `json:"question_index"`
	Prompt        string    `json:"prompt"`
	Options       []string  `json:"options"`
	Selected      *string   `json:"selected,omitempty"`
	Correct       *bool     `json:"correct,omitempty"`
	CorrectOption string    `json:"correct_option,omitempty"`
	Score         int       `json:"score"`
	Answered      int       `json:"answered"`
}

// Snapshot renders the session at its current position.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		SessionID:     s.ID,
		TopicID:       s.TopicID,
		TopicName:     s.TopicName,
		State:         s.State(),
		Mode:          s.Mode,
		Total:         len(s.Order),
		QuestionIndex: -1,
		Options:       []string{},
		Score:         s.Score,
		Answered:      len(s.Answers),
	}

	idx, q, ok := s.Current()
	if !ok {
		return snap
	}
	snap.Number = s.Position + 1
	snap.QuestionIndex = idx
	snap.Prompt = q.Prompt
	snap.Options = q.Options
	if selected, answered := s.Answers[idx]; answered {
		correct := selected == q.CorrectOption
		snap.Selected = &selected
		snap.Correct = &correct
		snap.CorrectOption = q.CorrectOption
	}
	return snap
}
