package parser

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestParseRGB(t *testing.T) {
	tests := []struct {
		in   string
		want RGB
		ok   bool
	}{
		{"FF0000", Red, true},
		{"#0000ff", Blue, true},
		{" ff00ff ", Magenta, true},
		{"auto", RGB{}, false},
		{"12345", RGB{}, false},
		{"GGGGGG", RGB{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseRGB(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("ParseRGB(%q) = (%v, %v), want (%v, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
	if Magenta.String() != "FF00FF" {
		t.Fatalf("Magenta.String() = %q", Magenta.String())
	}
}

func TestLoadCuesEmptyPathReturnsDefaults(t *testing.T) {
	cues, err := LoadCues("")
	if err != nil {
		t.Fatalf("LoadCues: %v", err)
	}
	if cues.EmphasisStyle != DefaultEmphasisStyle || cues.PromptLabel != DefaultPromptLabel {
		t.Fatalf("unexpected defaults %+v", cues)
	}
}

func TestLoadCuesFromFile(t *testing.T) {
	cues, err := LoadCues(filepath.Join("testdata", "english.yaml"))
	if err != nil {
		t.Fatalf("LoadCues: %v", err)
	}

	green, _ := ParseRGB("00B050")
	got := cues.Parse([]Paragraph{
		Plain("Q1. Which gas do plants absorb?"),
		Plain("a) Oxygen"),
		colored("b) Carbon dioxide", green),
		Plain("e) Helium"),
		styled("Heading2", "Unnumbered question"),
		Plain("a) one"),
		Plain("=> b) two"),
	})
	if len(got) != 2 {
		t.Fatalf("expected 2 questions, got %d: %+v", len(got), got)
	}
	if got[0].CorrectOption != "Carbon dioxide" || len(got[0].Options) != 3 {
		t.Fatalf("first question = %+v", got[0])
	}
	if got[1].Prompt != "Question: Unnumbered question" {
		t.Fatalf("second prompt = %q", got[1].Prompt)
	}
	if got[1].CorrectOption != "two" {
		t.Fatalf("second correct = %q", got[1].CorrectOption)
	}
}

func TestParseCuesKeepsDefaultsForOmittedKeys(t *testing.T) {
	cues, err := ParseCues([]byte("correct_colors: [FF0000, 0000FF, FF00FF]\n"))
	if err != nil {
		t.Fatalf("ParseCues: %v", err)
	}
	if len(cues.CorrectColors) != 3 {
		t.Fatalf("CorrectColors = %v", cues.CorrectColors)
	}
	if cues.OptionLabel.String() != DefaultOptionLabel {
		t.Fatalf("OptionLabel = %q", cues.OptionLabel.String())
	}

	got := cues.Parse([]Paragraph{Plain("1. Q"), Plain("A. a"), colored("B. b", Magenta)})
	if got[0].CorrectOption != "b" {
		t.Fatalf("magenta should mark correct once configured, got %q", got[0].CorrectOption)
	}
}

func TestParseCuesErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"unknown key", "colours: [red]\n", "colours"},
		{"bad regexp", "question_patterns: ['(']\n", "question_patterns[0]"},
		{"bad option label", "option_label: '['\n", "option_label"},
		{"bad color", "correct_colors: [red]\n", "correct_colors[0]"},
		{"two documents", "emphasis_style: A\n---\nemphasis_style: B\n", "parse cues"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCues([]byte(tt.data))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err.Error(), tt.want)
			}
		})
	}
}

func TestParseCuesEmptyDocument(t *testing.T) {
	cues, err := ParseCues(nil)
	if err != nil {
		t.Fatalf("ParseCues(nil): %v", err)
	}
	if len(cues.QuestionPatterns) != 1 {
		t.Fatalf("expected default question pattern, got %d", len(cues.QuestionPatterns))
	}
}
