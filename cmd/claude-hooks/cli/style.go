package cli

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Output styles. Color only when stdout is a terminal; hook output is often
// captured by the assistant and must stay machine-readable.
var (
	stylePhase = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A855F7")).
			Bold(true)

	styleHookID = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#06B6D4")).
			Bold(true)

	styleOK = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#22C55E"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444"))

	styleWarning = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EAB308"))

	styleDim = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

// colorEnabled reports whether styled output should be used.
func colorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// render applies a style when color is enabled, otherwise passes through.
func render(style lipgloss.Style, s string) string {
	if !colorEnabled() {
		return s
	}
	return style.Render(s)
}
