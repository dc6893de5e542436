package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/fintrack/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive dashboard",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	// Force TrueColor so background styling produces ANSI codes even when
	// lipgloss would detect a plainer profile.
	lipgloss.SetColorProfile(termenv.TrueColor)

	return withServices(func(sv *services) error {
		app := tui.NewApp(tui.Services{
			Directory:    sv.dir,
			Transactions: sv.txs,
			Budgets:      sv.budgets,
			Categories:   sv.cats,
		}, tui.Options{
			Currency: cfg.General.Currency,
			Refresh:  cfg.PollInterval(),
		})

		p := tea.NewProgram(app, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("TUI error: %w", err)
		}
		return nil
	})
}
