package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

var (
	colorTitle   = lipgloss.Color("33")
	colorMuted   = lipgloss.Color("242")
	colorCursor  = lipgloss.Color("212")
	colorCorrect = lipgloss.Color("42")
	colorWrong   = lipgloss.Color("160")
)

// View renders the current phase.
func (m Model) View() string {
	switch m.phase {
	case phasePick:
		return m.viewPick()
	case phasePlay:
		return m.viewPlay()
	default:
		return stylize(m.status, m.opts.NoColor, colorMuted) + "\n"
	}
}

func (m Model) viewPick() string {
	parts := []string{
		m.bold("Choose a topic", colorTitle),
		m.table.View(),
	}
	if m.status != "" {
		parts = append(parts, stylize(m.status, m.opts.NoColor, colorMuted))
	}
	parts = append(parts, stylize("enter play • q quit", m.opts.NoColor, colorMuted))
	return lipgloss.JoinVertical(lipgloss.Left, parts...) + "\n"
}

func (m Model) viewPlay() string {
	snap := m.session.Snapshot()
	header := fmt.Sprintf("%s  |  Question %d/%d  |  Score %d/%d  |  %s",
		snap.TopicName, snap.Number, snap.Total, snap.Score, snap.Answered, snap.Mode)

	if snap.Total == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.bold(header, colorTitle),
			"",
			"This topic has no questions.",
			"",
			m.help.View(m.keys),
		) + "\n"
	}

	var b strings.Builder
	for i, opt := range snap.Options {
		marker := "  "
		if i == m.cursor {
			marker = stylize("> ", m.opts.NoColor, colorCursor)
		}
		line := fmt.Sprintf("%c. %s", 'A'+rune(i%26), opt)
		if snap.Selected != nil {
			switch {
			case opt == snap.CorrectOption:
				line = stylize(line+"  ✓", m.opts.NoColor, colorCorrect)
			case opt == *snap.Selected:
				line = stylize(line+"  ✗", m.opts.NoColor, colorWrong)
			}
		}
		b.WriteString(marker + line + "\n")
	}

	status := m.status
	if m.jumping {
		status = "Jump to question: " + m.jumpInput + "_"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.bold(header, colorTitle),
		"",
		lipgloss.NewStyle().Width(max(m.help.Width, 40)).Render(snap.Prompt),
		"",
		b.String(),
		stylize(status, m.opts.NoColor, colorMuted),
		m.help.View(m.keys),
	) + "\n"
}

func (m Model) bold(text string, color lipgloss.Color) string {
	if m.opts.NoColor {
		return text
	}
	return lipgloss.NewStyle().Bold(true).Foreground(color).Render(text)
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor || text == "" {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

func tableStyles(noColor bool) table.Styles {
	styles := table.DefaultStyles()
	if noColor {
		return styles
	}
	styles.Header = styles.Header.Foreground(lipgloss.Color("252")).Bold(true)
	styles.Selected = styles.Selected.Foreground(colorCursor)
	return styles
}
