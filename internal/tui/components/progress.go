package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fintrack/internal/tui/theme"
)

// ColorForUsage returns the bar color for a budget that is ratio used
// (1 = exactly at the limit).
func ColorForUsage(ratio float64) lipgloss.Color {
	t := theme.Active
	switch {
	case ratio > 1:
		return t.Warning
	case ratio >= 0.8:
		return t.Caution
	default:
		return t.Income
	}
}

// BudgetBar renders a labeled budget bar. The bar is clamped at full, the
// percentage is not.
func BudgetBar(label string, ratio float64, labelW, barWidth int) string {
	t := theme.Active
	color := ColorForUsage(ratio)

	fill := min(max(ratio, 0), 1)
	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(max(barWidth, 4)),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	pctStyle := lipgloss.NewStyle().Foreground(color).Bold(true)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, Truncate(label, labelW))) +
		" " + bar.ViewAs(fill) + " " +
		pctStyle.Render(fmt.Sprintf("%5.1f%%", ratio*100))
}

// Truncate shortens s to at most n display cells.
func Truncate(s string, n int) string {
	if n <= 0 || lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > n {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
