package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default cue values. They match Vietnamese exam documents with Latin A–D
// option letters, which is what the importer was first built for.
const (
	DefaultQuestionPattern = `(?i)^(?:(?:câu|bài|question|exercise)\s*\d+\s*[.):/]?|\d+[.)/])`
	DefaultOptionLabel     = `^[A-Da-d][.)\-]`
	DefaultEmphasisStyle   = "Strong"
	DefaultCorrectPrefix   = "*"
	DefaultPromptLabel     = "Câu hỏi: "
)

// Palette colors recognised as "this option is the answer".
var (
	Red     = RGB{R: 0xFF}
	Blue    = RGB{B: 0xFF}
	Magenta = RGB{R: 0xFF, B: 0xFF}
)

// Cues is the set of formatting heuristics the parser classifies paragraphs with.
type Cues struct {
	// QuestionPatterns mark a paragraph as a numbered question start.
	QuestionPatterns []*regexp.Regexp
	// OptionLabel matches a leading option letter and separator ("A.", "b)").
	OptionLabel *regexp.Regexp
	// EmphasisStyle is the style-name fragment treated as emphasis.
	EmphasisStyle string
	// CorrectColors are run colors that mark the correct option.
	CorrectColors []RGB
	// CorrectPrefix marks an option as correct when its text starts with it.
	CorrectPrefix string
	// PromptLabel prefixes prompts of questions detected only by emphasis.
	PromptLabel string
}

// DefaultCues returns a fresh copy of the built-in cue set.
func DefaultCues() *Cues {
	return &Cues{
		QuestionPatterns: []*regexp.Regexp{regexp.MustCompile(DefaultQuestionPattern)},
		OptionLabel:      regexp.MustCompile(DefaultOptionLabel),
		EmphasisStyle:    DefaultEmphasisStyle,
		CorrectColors:    []RGB{Red, Blue},
		CorrectPrefix:    DefaultCorrectPrefix,
		PromptLabel:      DefaultPromptLabel,
	}
}

// cueFile is the YAML shape of a cue file. Omitted keys keep their defaults.
type cueFile struct {
	QuestionPatterns []string `yaml:"question_patterns"`
	OptionLabel      *string  `yaml:"option_label"`
	EmphasisStyle    *string  `yaml:"emphasis_style"`
	CorrectColors    []string `yaml:"correct_colors"`
	CorrectPrefix    *string  `yaml:"correct_prefix"`
	PromptLabel      *string  `yaml:"prompt_label"`
}

// LoadCues reads a YAML cue file. An empty path returns the defaults.
func LoadCues(path string) (*Cues, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultCues(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cues: %w", err)
	}
	return ParseCues(data)
}

// ParseCues decodes a single YAML document into a cue set layered over the defaults.
func ParseCues(data []byte) (*Cues, error) {
	var f cueFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse cues: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("parse cues: multiple YAML documents are not supported")
		}
		return nil, fmt.Errorf("parse cues: %w", err)
	}

	cues := DefaultCues()
	if len(f.QuestionPatterns) > 0 {
		cues.QuestionPatterns = cues.QuestionPatterns[:0]
		for i, raw := range f.QuestionPatterns {
			re, err := regexp.Compile(raw)
			if err != nil {
				return nil, fmt.Errorf("parse cues: question_patterns[%d]: %w", i, err)
			}
			cues.QuestionPatterns = append(cues.QuestionPatterns, re)
		}
	}
	if f.OptionLabel != nil {
		re, err := regexp.Compile(*f.OptionLabel)
		if err != nil {
			return nil, fmt.Errorf("parse cues: option_label: %w", err)
		}
		cues.OptionLabel = re
	}
	if f.EmphasisStyle != nil {
		cues.EmphasisStyle = *f.EmphasisStyle
	}
	if f.CorrectColors != nil {
		cues.CorrectColors = cues.CorrectColors[:0]
		for i, raw := range f.CorrectColors {
			c, ok := ParseRGB(raw)
			if !ok {
				return nil, fmt.Errorf("parse cues: correct_colors[%d]: invalid color %q", i, raw)
			}
			cues.CorrectColors = append(cues.CorrectColors, c)
		}
	}
	if f.CorrectPrefix != nil {
		cues.CorrectPrefix = *f.CorrectPrefix
	}
	if f.PromptLabel != nil {
		cues.PromptLabel = *f.PromptLabel
	}
	return cues, nil
}
