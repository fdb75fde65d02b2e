package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// RGB is a run's foreground color.
type RGB struct {
	R, G, B uint8
}

// ParseRGB reads a six-digit hex color such as "FF0000" (a leading '#' is
// allowed). The second result is false for "auto" or malformed values.
func ParseRGB(hex string) (RGB, bool) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return RGB{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, false
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, true
}

// String renders the color as upper-case hex without a '#'.
func (c RGB) String() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// Run is a span of text sharing one set of direct formatting. StyleName is
// the run's character style, if any.
type Run struct {
	Text      string
	Bold      bool
	Underline bool
	Color     *RGB
	StyleName string
}

// Paragraph is one block of a decoded document.
type Paragraph struct {
	Text      string
	Runs      []Run
	StyleName string
}

// NewParagraph builds a paragraph whose text is the concatenation of its runs.
func NewParagraph(style string, runs ...Run) Paragraph {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return Paragraph{Text: b.String(), Runs: runs, StyleName: style}
}

// Plain is a paragraph with a single unformatted run.
func Plain(text string) Paragraph {
	return NewParagraph("", Run{Text: text})
}

func (p Paragraph) anyRun(pred func(Run) bool) bool {
	for _, r := range p.Runs {
		if pred(r) {
			return true
		}
	}
	return false
}
