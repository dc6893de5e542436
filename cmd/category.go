package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/fintrack/internal/category"
	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/model"
)

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"categories"},
	Short:   "Manage the shared expense and income categories",
}

var categoryListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List categories",
	Args:    cobra.NoArgs,
	RunE:    runCategoryList,
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <expense|income> <label>",
	Short: "Add a category",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runCategoryAdd,
}

var categoryRmCmd = &cobra.Command{
	Use:     "rm <expense|income> <label>",
	Aliases: []string{"delete"},
	Short:   "Delete a category",
	Args:    cobra.MinimumNArgs(2),
	RunE:    runCategoryRm,
}

func init() {
	categoryCmd.AddCommand(categoryListCmd, categoryAddCmd, categoryRmCmd)
	rootCmd.AddCommand(categoryCmd)
}

// categoryArgs parses a kind followed by a label that may span several args.
func categoryArgs(args []string) (model.Kind, string, error) {
	kind, err := model.ParseKind(args[0])
	if err != nil {
		return "", "", err
	}
	label := strings.TrimSpace(strings.Join(args[1:], " "))
	if label == "" {
		return "", "", model.ErrMissingFields
	}
	return kind, label, nil
}

func runCategoryList(_ *cobra.Command, _ []string) error {
	return withServices(func(sv *services) error {
		cats, err := sv.cats.Get()
		if err != nil {
			return err
		}
		expense, income := cats.For(model.Expense), cats.For(model.Income)
		rows := make([][]string, max(len(expense), len(income)))
		for i := range rows {
			rows[i] = []string{"", ""}
			if i < len(expense) {
				rows[i][0] = expense[i]
			}
			if i < len(income) {
				rows[i][1] = income[i]
			}
		}

		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Categories",
			Headers: []string{"Expense", "Income"},
			Rows:    rows,
		}))
		fmt.Println(cli.RenderMuted(fmt.Sprintf("  %q cannot be deleted.", category.ProtectedLabel)))
		fmt.Println()
		return nil
	})
}

func runCategoryAdd(_ *cobra.Command, args []string) error {
	kind, label, err := categoryArgs(args)
	if err != nil {
		return err
	}
	return withServices(func(sv *services) error {
		added, err := sv.cats.Add(kind, label)
		if err != nil {
			return err
		}
		if !added {
			infof("  %q already exists.\n", label)
			return nil
		}
		infof("  Added %s category %q.\n", kind, label)
		return nil
	})
}

func runCategoryRm(_ *cobra.Command, args []string) error {
	kind, label, err := categoryArgs(args)
	if err != nil {
		return err
	}
	if category.Protected(label) {
		return model.Validation("%q cannot be deleted.", label)
	}
	return withServices(func(sv *services) error {
		deleted, err := sv.cats.Delete(kind, label)
		if err != nil {
			return err
		}
		if !deleted {
			return model.NotFound("Category", label)
		}
		infof("  Deleted %s category %q.\n", kind, label)
		return nil
	})
}
