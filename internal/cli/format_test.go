package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "₹0.00"},
		{"5", "₹5.00"},
		{"999.999", "₹1,000.00"},
		{"1234.5", "₹1,234.50"},
		{"1234567.891", "₹1,234,567.89"},
		{"-42.1", "-₹42.10"},
	}
	for _, tt := range tests {
		got := FormatMoney("₹", decimal.RequireFromString(tt.in))
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestFormatSignedMoney(t *testing.T) {
	assert.Equal(t, "+$10.00", FormatSignedMoney("$", decimal.NewFromInt(10)))
	assert.Equal(t, "-$10.00", FormatSignedMoney("$", decimal.NewFromInt(-10)))
	assert.Equal(t, "$0.00", FormatSignedMoney("$", decimal.Zero))
}

func TestSmallFormatters(t *testing.T) {
	assert.Equal(t, "1,234,567", FormatNumber(1234567))
	assert.Equal(t, "12.3%", FormatPercent(12.345))
	assert.Equal(t, "Mar 2024", FormatMonth(time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC)))

	now := time.Date(2024, time.March, 9, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "3 days ago", FormatAgo(now.Add(-72*time.Hour), now))
	assert.Equal(t, "-", FormatAgo(time.Time{}, now))

	assert.Equal(t, "Groc…", Truncate("Groceries", 5))
	assert.Equal(t, "Rent", Truncate("Rent", 5))
}

func TestRenderTableAlignsUnicode(t *testing.T) {
	out := RenderTable(Table{
		Headers:    []string{"Category", "Amount"},
		Rows:       [][]string{{"Food", "₹1,200.00"}, {"---"}, {"Total", "₹1.00"}},
		RightAlign: map[int]bool{1: true},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 7)

	width := lipgloss.Width(lines[0])
	for _, l := range lines {
		assert.Equal(t, width, lipgloss.Width(l), l)
	}
	assert.Contains(t, out, "    ₹1.00")
	assert.Equal(t, "", RenderTable(Table{}))
}

func TestRenderSparkline(t *testing.T) {
	assert.Equal(t, "▁▄█", RenderSparkline([]float64{0, 50, 100}))
	assert.Equal(t, "▁▁", RenderSparkline([]float64{0, 0}))
	assert.Equal(t, "", RenderSparkline(nil))
}

func TestRenderProgressBar(t *testing.T) {
	assert.Contains(t, RenderProgressBar(50, 10), "50.0%")
	assert.Contains(t, RenderProgressBar(150, 10), "150.0%")
	assert.Equal(t, "", RenderProgressBar(10, 0))
}
