package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fintrack/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar: key hints on the left,
// a flash message in the middle and the logged-in user plus data age on the
// right.
func RenderStatusBar(width int, user, flash, dataAge string) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	flashStyle := lipgloss.NewStyle().Foreground(t.Caution).Background(t.Surface).Bold(true)

	left := base.Render(" [?]help  [L]ogout  [q]uit")
	if flash != "" {
		left += base.Render("  ") + flashStyle.Render(flash)
	}

	var right []string
	if user != "" {
		right = append(right, user)
	}
	if dataAge != "" {
		right = append(right, "updated "+dataAge)
	}
	r := base.Render(strings.Join(right, " · ") + " ")

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(r), 0)
	return left + base.Render(strings.Repeat(" ", gap)) + r
}
