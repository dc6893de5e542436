package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fintrack/internal/tui/theme"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	peak := maxOf(values)
	if peak <= 0 {
		peak = 1
	}

	var buf strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(sparkBlocks)-1))
		idx = min(max(idx, 0), len(sparkBlocks)-1)
		buf.WriteRune(sparkBlocks[idx])
	}
	return lipgloss.NewStyle().Foreground(color).Render(buf.String())
}

// Bar is one row of a horizontal bar chart.
type Bar struct {
	Label string
	Value float64
	Text  string // shown after the bar, e.g. the formatted amount
	Color lipgloss.Color
}

// HBarChart renders one horizontal bar per row, scaled to the largest value.
func HBarChart(rows []Bar, labelW, width int) string {
	if len(rows) == 0 {
		return ""
	}
	t := theme.Active

	textW := 0
	values := make([]float64, len(rows))
	for i, r := range rows {
		textW = max(textW, lipgloss.Width(r.Text))
		values[i] = r.Value
	}
	barW := max(width-labelW-textW-2, 4)
	peak := maxOf(values)
	if peak <= 0 {
		peak = 1
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	lines := make([]string, len(rows))
	for i, r := range rows {
		filled := int(math.Round(r.Value / peak * float64(barW)))
		filled = min(max(filled, 0), barW)
		if r.Value > 0 && filled == 0 {
			filled = 1
		}
		color := r.Color
		if color == "" {
			color = t.SeriesColor(i)
		}
		lines[i] = labelStyle.Render(fmt.Sprintf("%-*s", labelW, Truncate(r.Label, labelW))) + " " +
			lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
			emptyStyle.Render(strings.Repeat("·", barW-filled)) + " " +
			textStyle.Render(fmt.Sprintf("%*s", textW, r.Text))
	}
	return strings.Join(lines, "\n")
}

// PairedBarChart renders two series side by side per label as vertical bars,
// e.g. income and expense per month. height is the number of bar rows.
func PairedBarChart(labels []string, a, b []float64, colorA, colorB lipgloss.Color, height int) string {
	n := min(len(labels), len(a), len(b))
	if n == 0 || height < 1 {
		return ""
	}
	t := theme.Active

	peak := max(maxOf(a[:n]), maxOf(b[:n]))
	if peak <= 0 {
		peak = 1
	}

	colW := 7
	for _, l := range labels[:n] {
		colW = max(colW, lipgloss.Width(l)+1)
	}
	axisW := len(compactNumber(peak))

	styleA := lipgloss.NewStyle().Foreground(colorA)
	styleB := lipgloss.NewStyle().Foreground(colorB)
	axis := lipgloss.NewStyle().Foreground(t.TextDim)

	cell := func(v float64, row int) string {
		level := v / peak * float64(height)
		switch {
		case level >= float64(row):
			return "██"
		case level > float64(row-1):
			idx := int((level - float64(row-1)) * float64(len(sparkBlocks)-1))
			idx = min(max(idx, 0), len(sparkBlocks)-1)
			return strings.Repeat(string(sparkBlocks[idx]), 2)
		default:
			return "  "
		}
	}

	var out strings.Builder
	for row := height; row >= 1; row-- {
		label := ""
		if row == height {
			label = compactNumber(peak)
		}
		out.WriteString(axis.Render(fmt.Sprintf("%*s│", axisW, label)))
		for i := 0; i < n; i++ {
			out.WriteString(styleA.Render(cell(a[i], row)))
			out.WriteString(styleB.Render(cell(b[i], row)))
			out.WriteString(strings.Repeat(" ", colW-4))
		}
		out.WriteString("\n")
	}
	out.WriteString(axis.Render(fmt.Sprintf("%*s└%s", axisW, "0", strings.Repeat("─", n*colW))))
	out.WriteString("\n")
	out.WriteString(strings.Repeat(" ", axisW+1))
	for _, l := range labels[:n] {
		out.WriteString(axis.Render(fmt.Sprintf("%-*s", colW, l)))
	}
	return out.String()
}

// compactNumber formats an axis value, e.g. 1500 -> "1.5k".
func compactNumber(v float64) string {
	switch {
	case v >= 1e6:
		return trimZero(fmt.Sprintf("%.1f", v/1e6)) + "M"
	case v >= 1e3:
		return trimZero(fmt.Sprintf("%.1f", v/1e3)) + "k"
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}

func maxOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	peak := values[0]
	for _, v := range values[1:] {
		peak = max(peak, v)
	}
	return peak
}
