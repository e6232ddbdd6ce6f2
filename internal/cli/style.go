package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/specdoc/internal/capture"
)

var (
	passedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	failedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	notRunStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// statusBadge renders a status for terminal output. Styles collapse to
// plain text when the output is not a color terminal.
func statusBadge(s capture.Status) string {
	switch s {
	case capture.Passed:
		return passedStyle.Render("✓ " + s.String())
	case capture.Failed:
		return failedStyle.Render("✗ " + s.String())
	default:
		return notRunStyle.Render("- " + s.String())
	}
}

func muted(s string) string {
	return mutedStyle.Render(s)
}
