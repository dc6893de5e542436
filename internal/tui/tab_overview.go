package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/tui/components"
	"github.com/theirongolddev/fintrack/internal/tui/theme"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	var b strings.Builder

	// Row 1: totals
	balanceColor := t.Income
	if a.totals.Balance.IsNegative() {
		balanceColor = t.Warning
	}
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Income", Value: a.money(a.totals.Income), Color: t.Income},
		{Label: "Expense", Value: a.money(a.totals.Expense), Color: t.Expense},
		{Label: "Balance", Value: a.money(a.totals.Balance), Color: balanceColor},
		{Label: "Transactions", Value: cli.FormatNumber(int64(a.totals.Count)),
			Note: fmt.Sprintf("%d budgets", len(a.budgets))},
	}, cw))
	b.WriteString("\n")

	// Row 2: alerts
	if len(a.alerts) > 0 {
		warn := lipgloss.NewStyle().Foreground(t.Warning).Bold(true)
		lines := make([]string, len(a.alerts))
		for i, al := range a.alerts {
			lines[i] = warn.Render("! " + al.Message(a.currency))
		}
		b.WriteString(components.ContentCard("Budget alerts", strings.Join(lines, "\n"), cw))
		b.WriteString("\n")
	}

	// Row 3: breakdown and trend side by side
	halves := components.LayoutRow(cw, 2)
	breakdown := components.ContentCard("Expenses by category", a.breakdownChart(components.CardInnerWidth(halves[0])), halves[0])
	trend := components.ContentCard(fmt.Sprintf("Last %d months", trendMonths), a.trendChart(), halves[1])
	b.WriteString(components.CardRow([]string{breakdown, trend}))

	return b.String()
}

func (a App) breakdownChart(width int) string {
	if len(a.breakdown) == 0 {
		return lipgloss.NewStyle().Foreground(theme.Active.TextDim).Render("No expenses yet.")
	}
	bars := make([]components.Bar, len(a.breakdown))
	for i, c := range a.breakdown {
		bars[i] = components.Bar{
			Label: c.Category,
			Value: c.Amount.InexactFloat64(),
			Text:  fmt.Sprintf("%s %s", a.money(c.Amount), cli.FormatPercent(c.Percent)),
		}
	}
	return components.HBarChart(bars, 12, width)
}

func (a App) trendChart() string {
	t := theme.Active
	if len(a.trend) == 0 {
		return ""
	}
	labels := make([]string, len(a.trend))
	income := make([]float64, len(a.trend))
	expense := make([]float64, len(a.trend))
	for i, m := range a.trend {
		labels[i] = m.Month.Format("Jan")
		income[i] = m.Income.InexactFloat64()
		expense[i] = m.Expense.InexactFloat64()
	}
	legend := lipgloss.NewStyle().Foreground(t.Income).Render("██ income") + "  " +
		lipgloss.NewStyle().Foreground(t.Expense).Render("██ expense")
	return components.PairedBarChart(labels, income, expense, t.Income, t.Expense, 6) + "\n" + legend
}
