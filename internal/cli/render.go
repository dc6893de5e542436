package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/fintrack/internal/tui/theme"
)

// Table represents a bordered text table for CLI output.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	// RightAlign marks columns holding amounts. Column 0 is always left aligned.
	RightAlign map[int]bool
}

type styles struct {
	title, header, value, muted, dim, income, expense, warn lipgloss.Style
}

// current builds styles from the active theme so a theme chosen at startup
// applies to every render.
func current() styles {
	t := theme.Active
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary).Align(lipgloss.Center),
		header:  lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		value:   lipgloss.NewStyle().Foreground(t.TextPrimary),
		muted:   lipgloss.NewStyle().Foreground(t.TextMuted),
		dim:     lipgloss.NewStyle().Foreground(t.TextDim),
		income:  lipgloss.NewStyle().Foreground(t.Income),
		expense: lipgloss.NewStyle().Foreground(t.Expense),
		warn:    lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
	}
}

// RenderTitle renders a centered title bar in a bordered box.
func RenderTitle(title string) string {
	st := current()
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Active.Border).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(st.title.Render(title))
}

// RenderWarning renders one alert line.
func RenderWarning(msg string) string {
	return current().warn.Render("! " + msg)
}

// RenderMuted renders secondary text.
func RenderMuted(s string) string {
	return current().muted.Render(s)
}

// RenderAmount colors a money string by direction: positive is income-colored,
// negative expense-colored.
func RenderAmount(s string, d decimal.Decimal) string {
	st := current()
	switch {
	case d.IsNegative():
		return st.expense.Render(s)
	case d.IsPositive():
		return st.income.Render(s)
	}
	return st.value.Render(s)
}

// RenderTable renders a bordered table with headers and rows. A row holding
// the single cell "---" renders as a separator.
func RenderTable(t Table) string {
	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}
	if numCols == 0 {
		return ""
	}

	widths := make([]int, numCols)
	for i, h := range t.Headers {
		widths[i] = max(widths[i], lipgloss.Width(h))
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < numCols {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	st := current()
	var b strings.Builder

	rule := func(left, mid, right string) {
		b.WriteString(st.dim.Render(left))
		for i, w := range widths {
			b.WriteString(st.dim.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(st.dim.Render(mid))
			}
		}
		b.WriteString(st.dim.Render(right))
		b.WriteString("\n")
	}

	row := func(cells []string, style lipgloss.Style) {
		b.WriteString(st.dim.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(style.Render(" " + pad(cell, widths[i], i > 0 && t.RightAlign[i]) + " "))
			if i < numCols-1 {
				b.WriteString(st.dim.Render("│"))
			}
		}
		b.WriteString(st.dim.Render("│"))
		b.WriteString("\n")
	}

	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(st.header.Render(t.Title))
		b.WriteString("\n")
	}

	rule("╭", "┬", "╮")
	if len(t.Headers) > 0 {
		row(t.Headers, st.header)
		rule("├", "┼", "┤")
	}
	for _, r := range t.Rows {
		if len(r) == 1 && r[0] == "---" {
			rule("├", "┼", "┤")
			continue
		}
		row(r, st.value)
	}
	rule("╰", "┴", "╯")

	return b.String()
}

// pad fills s with spaces to width display cells.
func pad(s string, width int, right bool) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}

// RenderProgressBar renders a budget bar for pct percent used. Bars past 100%
// are drawn full in the warning color.
func RenderProgressBar(pct float64, width int) string {
	if width < 1 {
		return ""
	}
	st := current()
	ratio := pct / 100
	if ratio < 0 {
		ratio = 0
	}
	filled := int(ratio * float64(width))
	if filled > width {
		filled = width
	}

	style := st.income
	switch {
	case pct > 100:
		style = st.warn
	case pct >= 80:
		style = lipgloss.NewStyle().Foreground(theme.Active.Caution)
	}
	bar := style.Render(strings.Repeat("█", filled)) + st.dim.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("[%s] %s", bar, FormatPercent(pct))
}

// RenderSparkline generates a unicode block sparkline from a series of values.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	peak := values[0]
	for _, v := range values[1:] {
		peak = max(peak, v)
	}
	if peak <= 0 {
		peak = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		idx = min(max(idx, 0), len(blocks)-1)
		b.WriteRune(blocks[idx])
	}
	return b.String()
}
