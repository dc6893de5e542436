package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/fintrack/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRowSumsToWidth(t *testing.T) {
	assert.Equal(t, []int{34, 33, 33}, LayoutRow(100, 3))
	assert.Nil(t, LayoutRow(100, 0))
}

func TestCardRowPadsToTallest(t *testing.T) {
	theme.SetActive("flexoki-dark")

	short := ContentCard("Short", "Content", 22)
	tall := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4", 22)
	require.Less(t, lipgloss.Height(short), lipgloss.Height(tall))

	joined := CardRow([]string{tall, short})
	lines := strings.Split(joined, "\n")
	assert.Len(t, lines, lipgloss.Height(tall))
	for i, line := range lines {
		assert.Equal(t, 44, lipgloss.Width(line), "line %d", i)
		assert.Contains(t, line, "\x1b[", "line %d has no styling", i)
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	row := MetricCardRow([]Metric{
		{Label: "Income", Value: "₹5,000.00"},
		{Label: "Expense", Value: "₹1,200.00", Note: "3 transactions"},
		{Label: "Balance", Value: "₹3,800.00", Color: theme.Active.Income},
	}, 90)
	for _, line := range strings.Split(row, "\n") {
		assert.Equal(t, 90, lipgloss.Width(line))
	}
	assert.Contains(t, row, "3 transactions")
	assert.Equal(t, "", MetricCardRow(nil, 90))
}

func TestTabBarWidthsAndKeys(t *testing.T) {
	assert.Equal(t, len("Overview")+2, TabVisualWidth(Tabs[0], true))
	assert.Equal(t, len("[o]verview")+2, TabVisualWidth(Tabs[0], false))

	bar := RenderTabBar(1, 80)
	assert.Equal(t, 80, lipgloss.Width(bar))
	assert.Contains(t, bar, "Transactions")

	assert.Equal(t, 2, TabIdxByKey('b'))
	assert.Equal(t, -1, TabIdxByKey('z'))
}

func TestStatusBarFillsWidth(t *testing.T) {
	bar := RenderStatusBar(100, "asha@example.com", "Saved", "2 seconds ago")
	assert.Equal(t, 100, lipgloss.Width(bar))
	assert.Contains(t, bar, "asha@example.com")
	assert.Contains(t, bar, "Saved")
}

func TestColorForUsage(t *testing.T) {
	th := theme.Active
	assert.Equal(t, th.Income, ColorForUsage(0.5))
	assert.Equal(t, th.Caution, ColorForUsage(0.8))
	assert.Equal(t, th.Caution, ColorForUsage(1))
	assert.Equal(t, th.Warning, ColorForUsage(1.2))
}

func TestBudgetBarShowsUnclampedPercent(t *testing.T) {
	out := BudgetBar("Overall", 1.2, 10, 20)
	assert.Contains(t, out, "120.0%")
	assert.Contains(t, out, "Overall")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Groc…", Truncate("Groceries", 5))
	assert.Equal(t, "Rent", Truncate("Rent", 5))
}

func TestCharts(t *testing.T) {
	assert.Equal(t, "", Sparkline(nil, theme.Active.Accent))
	assert.Contains(t, Sparkline([]float64{0, 50, 100}, theme.Active.Accent), "▁▄█")

	bars := HBarChart([]Bar{
		{Label: "Food", Value: 300, Text: "₹300.00"},
		{Label: "Rent", Value: 100, Text: "₹100.00"},
	}, 8, 40)
	lines := strings.Split(bars, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, lipgloss.Width(lines[0]), lipgloss.Width(lines[1]))
	assert.Greater(t, strings.Count(lines[0], "█"), strings.Count(lines[1], "█"))

	chart := PairedBarChart([]string{"Jan", "Feb"}, []float64{1000, 0}, []float64{500, 1500},
		theme.Active.Income, theme.Active.Expense, 4)
	assert.Len(t, strings.Split(chart, "\n"), 6)
	assert.Contains(t, chart, "1.5k")
	assert.Contains(t, chart, "Feb")
}

func TestCompactNumber(t *testing.T) {
	assert.Equal(t, "950", compactNumber(950))
	assert.Equal(t, "2k", compactNumber(2000))
	assert.Equal(t, "1.2M", compactNumber(1_200_000))
}
