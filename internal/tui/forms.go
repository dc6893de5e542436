package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fintrack/internal/category"
	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/tui/theme"
)

type entryKind int

const (
	entryTransaction entryKind = iota
	entryBudget
	entryCategory
)

// entryValues is bound to form fields; every form uses the subset it needs.
type entryValues struct {
	id          string // set when editing a transaction
	description string
	amount      string
	kind        model.Kind
	category    string
	date        string
	period      model.Period
	label       string
}

type entryState struct {
	kind  entryKind
	title string
	form  *huh.Form
	vals  *entryValues
}

func validAmount(s string) error {
	_, err := model.ParseAmount(s)
	return err
}

func validDate(s string) error {
	if _, err := model.ParseDate(strings.TrimSpace(s)); err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

func categoryOptions(cats model.Categories, kind model.Kind) []huh.Option[string] {
	labels := cats.For(kind)
	if len(labels) == 0 {
		labels = []string{category.ProtectedLabel}
	}
	return huh.NewOptions(labels...)
}

// newTransactionEntry builds the add form, or the edit form when tx is set.
func (a App) newTransactionEntry(tx *model.Transaction) *entryState {
	vals := &entryValues{
		kind: model.Expense,
		date: a.now().Format(model.DateLayout),
	}
	title := "Add transaction"
	if tx != nil {
		title = "Edit transaction"
		vals.id = tx.ID
		vals.description = tx.Description
		vals.amount = tx.Amount.String()
		vals.kind = tx.Type
		vals.category = tx.Category
		vals.date = tx.Date.String()
	}
	cats := a.categories

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Description").Value(&vals.description).Validate(required),
			huh.NewInput().Title("Amount").Value(&vals.amount).Validate(validAmount),
			huh.NewSelect[model.Kind]().
				Title("Type").
				Options(
					huh.NewOption("Expense", model.Expense),
					huh.NewOption("Income", model.Income),
				).
				Value(&vals.kind),
			huh.NewSelect[string]().
				Title("Category").
				OptionsFunc(func() []huh.Option[string] {
					return categoryOptions(cats, vals.kind)
				}, &vals.kind).
				Value(&vals.category),
			huh.NewInput().Title("Date").Placeholder(model.DateLayout).Value(&vals.date).Validate(validDate),
		),
	).WithShowHelp(false).WithWidth(50)

	return &entryState{kind: entryTransaction, title: title, form: form, vals: vals}
}

func (a App) newBudgetEntry() *entryState {
	vals := &entryValues{category: model.OverallCategory, period: model.Monthly}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Category").
				Options(huh.NewOptions(category.BudgetOptions(a.categories)...)...).
				Value(&vals.category),
			huh.NewInput().Title("Amount").Value(&vals.amount).Validate(validAmount),
			huh.NewSelect[model.Period]().
				Title("Period").
				Options(
					huh.NewOption("Monthly", model.Monthly),
					huh.NewOption("Yearly", model.Yearly),
				).
				Value(&vals.period),
		),
	).WithShowHelp(false).WithWidth(50)

	return &entryState{kind: entryBudget, title: "Add budget", form: form, vals: vals}
}

func (a App) newCategoryEntry() *entryState {
	vals := &entryValues{kind: a.catKind}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[model.Kind]().
				Title("List").
				Options(
					huh.NewOption("Expense", model.Expense),
					huh.NewOption("Income", model.Income),
				).
				Value(&vals.kind),
			huh.NewInput().Title("Name").Value(&vals.label).Validate(required),
		),
	).WithShowHelp(false).WithWidth(50)

	return &entryState{kind: entryCategory, title: "Add category", form: form, vals: vals}
}

func (a App) openEntry(e *entryState) (tea.Model, tea.Cmd) {
	a.entry = e
	a.flash = ""
	return a, e.form.Init()
}

func (a App) updateEntry(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		a.entry = nil
		a.flash = "Cancelled."
		return a, nil
	}

	form, cmd := a.entry.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.entry.form = f
	}

	switch a.entry.form.State {
	case huh.StateAborted:
		a.entry = nil
		a.flash = "Cancelled."
		return a, nil
	case huh.StateCompleted:
		e := a.entry
		a.entry = nil
		if err := a.submitEntry(e); err != nil {
			a.flash = err.Error()
			return a, nil
		}
		return a, loadDataCmd(a.svc)
	}
	return a, cmd
}

// submitEntry writes the completed form and sets the flash message.
func (a *App) submitEntry(e *entryState) error {
	if a.user == nil {
		return model.ErrNotAuthenticated
	}
	owner := a.user.Email
	v := e.vals

	switch e.kind {
	case entryTransaction:
		amount, err := model.ParseAmount(v.amount)
		if err != nil {
			return err
		}
		date, err := model.ParseDate(strings.TrimSpace(v.date))
		if err != nil {
			return err
		}
		in := model.TransactionInput{
			Description: strings.TrimSpace(v.description),
			Amount:      amount,
			Type:        v.kind,
			Category:    v.category,
			Date:        date,
		}
		if v.id == "" {
			if _, err := a.svc.Transactions.Add(owner, in); err != nil {
				return err
			}
			a.flash = "Transaction added."
			return nil
		}
		ok, err := a.svc.Transactions.Update(owner, in.Apply(model.Transaction{ID: v.id, UserEmail: owner}))
		if err != nil {
			return err
		}
		if !ok {
			return model.NotFound("transaction", v.id)
		}
		a.flash = "Transaction updated."

	case entryBudget:
		amount, err := model.ParseAmount(v.amount)
		if err != nil {
			return err
		}
		if _, err := a.svc.Budgets.Add(owner, model.BudgetInput{
			Category: v.category,
			Amount:   amount,
			Period:   v.period,
		}); err != nil {
			return err
		}
		a.flash = "Budget added."

	case entryCategory:
		label := strings.TrimSpace(v.label)
		added, err := a.svc.Categories.Add(v.kind, label)
		if err != nil {
			return err
		}
		if !added {
			a.flash = "\"" + label + "\" already exists."
			return nil
		}
		a.catKind = v.kind
		a.flash = "Category added."
	}
	return nil
}

func (a App) viewEntry() string {
	t := theme.Active
	title := lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Render(a.entry.title)
	hint := lipgloss.NewStyle().Foreground(t.TextDim).Render("enter to confirm · esc to cancel")

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 2).
		Render(title + "\n\n" + a.entry.form.View() + "\n" + hint)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}
