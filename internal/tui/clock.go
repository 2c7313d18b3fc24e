package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/balkashynov/worklog/internal/timecalc"
)

// bigDigits is the ASCII art used by the dashboard clock (3x5 per glyph)
var bigDigits = map[rune][5]string{
	'0': {" ███ ", "█   █", "█   █", "█   █", " ███ "},
	'1': {"  █  ", " ██  ", "  █  ", "  █  ", "█████"},
	'2': {" ███ ", "█   █", "   █ ", "  █  ", "█████"},
	'3': {" ███ ", "█   █", "  ██ ", "█   █", " ███ "},
	'4': {"█   █", "█   █", "█████", "    █", "    █"},
	'5': {"█████", "█    ", "████ ", "    █", "████ "},
	'6': {" ███ ", "█    ", "████ ", "█   █", " ███ "},
	'7': {"█████", "    █", "   █ ", "  █  ", " █   "},
	'8': {" ███ ", "█   █", " ███ ", "█   █", " ███ "},
	'9': {" ███ ", "█   █", " ████", "    █", " ███ "},
	':': {"     ", "  █  ", "     ", "  █  ", "     "},
}

// renderBigClock renders the current work interval as an ASCII art clock
func (m DashboardModel) renderBigClock() string {
	timeStr := timecalc.FormatSeconds(m.calc.CurrentSessionSeconds)

	var lines [5]strings.Builder
	for _, char := range timeStr {
		art, ok := bigDigits[char]
		if !ok {
			continue
		}
		for i := 0; i < 5; i++ {
			lines[i].WriteString(art[i])
			lines[i].WriteString(" ") // Space between digits
		}
	}

	clockStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentBright)).
		Bold(true)

	var rendered []string
	for i := 0; i < 5; i++ {
		rendered = append(rendered, clockStyle.Render(lines[i].String()))
	}

	clock := strings.Join(rendered, "\n")

	var b strings.Builder
	for i, line := range strings.Split(clock, "\n") {
		centered := lipgloss.NewStyle().
			Align(lipgloss.Center).
			Width(m.width).
			Render(line)
		b.WriteString(centered)
		if i < 4 {
			b.WriteString("\n")
		}
	}

	return b.String()
}
