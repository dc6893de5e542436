package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/theirongolddev/fintrack/internal/category"
	"github.com/theirongolddev/fintrack/internal/cli"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/pipeline"
)

var (
	flagBudgetCategory string
	flagBudgetAmount   string
	flagBudgetPeriod   string
)

var budgetCmd = &cobra.Command{
	Use:     "budget",
	Aliases: []string{"budgets"},
	Short:   "Manage budgets",
}

var budgetAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a budget (prompts when the amount is missing)",
	Args:  cobra.NoArgs,
	RunE:  runBudgetAdd,
}

var budgetEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a budget (prompts when no field flags are given)",
	Args:  cobra.ExactArgs(1),
	RunE:  runBudgetEdit,
}

var budgetRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete a budget",
	Args:    cobra.ExactArgs(1),
	RunE:    runBudgetRm,
}

var budgetListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List budgets with spend for the current period",
	Args:    cobra.NoArgs,
	RunE:    runBudgetList,
}

func init() {
	for _, c := range []*cobra.Command{budgetAddCmd, budgetEditCmd} {
		c.Flags().StringVar(&flagBudgetCategory, "category", model.OverallCategory, "Expense category or Overall")
		c.Flags().StringVar(&flagBudgetAmount, "amount", "", "Budget amount (positive)")
		c.Flags().StringVar(&flagBudgetPeriod, "period", string(model.Monthly), "monthly or yearly")
	}

	budgetCmd.AddCommand(budgetAddCmd, budgetEditCmd, budgetRmCmd, budgetListCmd)
	rootCmd.AddCommand(budgetCmd)
}

type budgetValues struct {
	category, amount, period string
}

func (v budgetValues) input() (model.BudgetInput, error) {
	if strings.TrimSpace(v.category) == "" || strings.TrimSpace(v.amount) == "" {
		return model.BudgetInput{}, model.ErrMissingFields
	}
	amount, err := model.ParseAmount(v.amount)
	if err != nil {
		return model.BudgetInput{}, err
	}
	period, err := model.ParsePeriod(v.period)
	if err != nil {
		return model.BudgetInput{}, err
	}
	return model.BudgetInput{Category: strings.TrimSpace(v.category), Amount: amount, Period: period}, nil
}

func promptBudget(title string, v *budgetValues, cats model.Categories) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Category").
				Options(huh.NewOptions(category.BudgetOptions(cats)...)...).
				Value(&v.category),
			huh.NewInput().Title("Amount").Value(&v.amount),
			huh.NewSelect[string]().
				Title("Period").
				Options(
					huh.NewOption("Monthly", string(model.Monthly)),
					huh.NewOption("Yearly", string(model.Yearly)),
				).
				Value(&v.period),
		).Title(title),
	)
	return form.Run()
}

func runBudgetAdd(_ *cobra.Command, _ []string) error {
	return withServices(func(sv *services) error {
		u, err := sv.requireUser()
		if err != nil {
			return err
		}

		v := budgetValues{category: flagBudgetCategory, amount: flagBudgetAmount, period: flagBudgetPeriod}
		if v.amount == "" {
			cats, err := sv.cats.Get()
			if err != nil {
				return err
			}
			if err := promptBudget("New budget", &v, cats); err != nil {
				return err
			}
		}

		in, err := v.input()
		if err != nil {
			return err
		}
		b, err := sv.budgets.Add(u.Email, in)
		if err != nil {
			return err
		}
		infof("  Added %s budget of %s for %s\n", b.Period, money(b.Amount), b.Category)
		infof("  %s\n", cli.RenderMuted("id "+b.ID))
		warnAlerts(sv, u.Email)
		return nil
	})
}

func runBudgetEdit(cmd *cobra.Command, args []string) error {
	return withServices(func(sv *services) error {
		u, err := sv.requireUser()
		if err != nil {
			return err
		}
		b, err := sv.budgets.Get(u.Email, args[0])
		if err != nil {
			return err
		}

		v := budgetValues{category: b.Category, amount: b.Amount.String(), period: string(b.Period)}
		changed := false
		for name, dst := range map[string]*string{
			"category": &v.category, "amount": &v.amount, "period": &v.period,
		} {
			if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
				*dst = f.Value.String()
				changed = true
			}
		}
		if !changed {
			cats, err := sv.cats.Get()
			if err != nil {
				return err
			}
			if err := promptBudget("Edit budget", &v, cats); err != nil {
				return err
			}
		}

		in, err := v.input()
		if err != nil {
			return err
		}
		ok, err := sv.budgets.Update(u.Email, in.Apply(b))
		if err != nil {
			return err
		}
		if !ok {
			return model.NotFound("Budget", b.ID)
		}
		infof("  Budget updated.\n")
		warnAlerts(sv, u.Email)
		return nil
	})
}

func runBudgetRm(_ *cobra.Command, args []string) error {
	return withServices(func(sv *services) error {
		u, err := sv.requireUser()
		if err != nil {
			return err
		}
		ok, err := sv.budgets.Delete(u.Email, args[0])
		if err != nil {
			return err
		}
		if !ok {
			return model.NotFound("Budget", args[0])
		}
		infof("  Budget deleted.\n")
		return nil
	})
}

func runBudgetList(_ *cobra.Command, _ []string) error {
	return withServices(func(sv *services) error {
		u, err := sv.requireUser()
		if err != nil {
			return err
		}
		budgets, err := sv.budgets.ListForOwner(u.Email)
		if err != nil {
			return err
		}
		if len(budgets) == 0 {
			fmt.Println("\n  No budgets yet. Add one with `fintrack budget add`.")
			return nil
		}
		txs, err := sv.txs.ListForOwner(u.Email)
		if err != nil {
			return err
		}

		now := time.Now()
		title := cases.Title(language.English)
		statuses := pipeline.BudgetStatuses(u.Email, budgets, txs, now)
		rows := make([][]string, 0, len(statuses))
		for _, st := range statuses {
			spent, used := money(st.Spent), cli.RenderProgressBar(st.UsedPercent, 16)
			if !pipeline.Tracked(st.Budget.Period) {
				spent, used = "-", "not tracked"
			}
			rows = append(rows, []string{
				st.Budget.Category,
				title.String(string(st.Budget.Period)),
				money(st.Budget.Amount),
				spent,
				used,
				cli.FormatAgo(st.Budget.CreatedAt, now),
				st.Budget.ID,
			})
		}

		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:      "Budgets",
			Headers:    []string{"Category", "Period", "Budget", "Spent", "Used", "Created", "ID"},
			Rows:       rows,
			RightAlign: map[int]bool{2: true, 3: true},
		}))
		printAlerts(pipeline.BudgetAlerts(u.Email, budgets, txs, now))
		return nil
	})
}
