package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fintrack/internal/model"
	"github.com/theirongolddev/fintrack/internal/tui/theme"
)

// loginValues is bound to the form fields, so it lives behind a pointer that
// survives App copies.
type loginValues struct {
	email    string
	password string
}

type loginState struct {
	form  *huh.Form
	vals  *loginValues
	error string
}

// newLoginState builds the login form, prefilled with the remembered email.
func newLoginState(lastEmail string) *loginState {
	vals := &loginValues{email: lastEmail}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&vals.email).
				Validate(required),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&vals.password).
				Validate(required),
		),
	).WithShowHelp(false).WithWidth(50)
	return &loginState{form: form, vals: vals}
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return model.ErrMissingFields
	}
	return nil
}

func (a App) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		return a, tea.Quit
	}

	form, cmd := a.login.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.login.form = f
	}

	switch a.login.form.State {
	case huh.StateAborted:
		return a, tea.Quit
	case huh.StateCompleted:
		return a.submitLogin()
	}
	return a, cmd
}

// submitLogin checks the credentials. A mismatch rebuilds the form with the
// email kept and an error shown.
func (a App) submitLogin() (tea.Model, tea.Cmd) {
	email := strings.TrimSpace(a.login.vals.email)
	u, err := a.svc.Directory.Login(email, a.login.vals.password)
	if err != nil || u == nil {
		msg := "Invalid email or password."
		if err != nil {
			msg = err.Error()
		}
		a.login = newLoginState(email)
		a.login.error = msg
		return a, a.login.form.Init()
	}

	a.login = nil
	a.flash = "Welcome back, " + u.Name + "."
	return a, loadDataCmd(a.svc)
}

func (a App) viewLogin() string {
	t := theme.Active

	titleStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	errStyle := lipgloss.NewStyle().Foreground(t.Warning).Bold(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("fintrack"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Log in to see your transactions and budgets."))
	b.WriteString("\n\n")
	b.WriteString(a.login.form.View())
	if a.login.error != "" {
		b.WriteString("\n")
		b.WriteString(errStyle.Render(a.login.error))
	}
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render("No account yet? Run `fintrack register`.  esc to quit"))

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 2).
		Render(b.String())

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}
