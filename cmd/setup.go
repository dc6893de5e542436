package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/fintrack/internal/config"
	"github.com/theirongolddev/fintrack/internal/tui/theme"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Start from the file only, so one-off flags are not persisted.
	next, _ := config.Load()

	themes := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themes = append(themes, huh.NewOption(t.Name, t.Name))
	}

	fmt.Println()
	fmt.Println("  Welcome to fintrack!")
	fmt.Println()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Currency symbol").
				Description("Shown before every amount, e.g. ₹, $ or €.").
				Value(&next.General.Currency).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("currency cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Data directory").
				Description("Leave empty for "+config.DefaultDataDir()).
				Value(&next.General.DataDir),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themes...).
				Value(&next.Appearance.Theme),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	next.General.Currency = strings.TrimSpace(next.General.Currency)
	next.General.DataDir = strings.TrimSpace(next.General.DataDir)

	if err := next.Validate(); err != nil {
		return err
	}
	if err := config.Save(next); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `fintrack register` to create an account, then `fintrack login`.")
	fmt.Println()
	return nil
}
