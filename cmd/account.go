package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/fintrack/internal/account"
	"github.com/theirongolddev/fintrack/internal/cli"
)

var errInvalidCredentials = errors.New("invalid email or password")

var (
	flagName     string
	flagEmail    string
	flagPassword string
	flagNewPass  string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Long:  "Create an account. Missing fields are prompted for. Registering does not log you in.",
	Args:  cobra.NoArgs,
	RunE:  runRegister,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to an account",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out of the current account",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change the logged-in user's password",
	Args:  cobra.NoArgs,
	RunE:  runPasswd,
}

func init() {
	registerCmd.Flags().StringVar(&flagName, "name", "", "Display name")
	for _, c := range []*cobra.Command{registerCmd, loginCmd} {
		c.Flags().StringVar(&flagEmail, "email", "", "Account email")
		c.Flags().StringVar(&flagPassword, "password", "", "Account password (prompted when omitted)")
	}
	passwdCmd.Flags().StringVar(&flagPassword, "current", "", "Current password")
	passwdCmd.Flags().StringVar(&flagNewPass, "new", "", "New password")

	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd, passwdCmd)
}

type registerValues struct {
	name, email, password, confirm string
}

func runRegister(_ *cobra.Command, _ []string) error {
	vals := registerValues{name: flagName, email: flagEmail, password: flagPassword, confirm: flagPassword}

	if vals.name == "" || vals.email == "" || vals.password == "" {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Title("Name").Value(&vals.name),
				huh.NewInput().Title("Email").Value(&vals.email),
				huh.NewInput().
					Title("Password").
					EchoMode(huh.EchoModePassword).
					Value(&vals.password).
					DescriptionFunc(func() string { return strengthNote(vals.password) }, &vals.password),
				huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(&vals.confirm),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
	}

	vals.name = strings.TrimSpace(vals.name)
	vals.email = strings.TrimSpace(vals.email)
	if err := account.ValidateRegistration(vals.name, vals.email, vals.password, vals.confirm); err != nil {
		return err
	}

	return withServices(func(sv *services) error {
		u, err := sv.dir.Register(vals.name, vals.email, vals.password)
		if err != nil {
			return err
		}
		infof("  Registered %s. Log in with `fintrack login`.\n", u.Email)
		return nil
	})
}

func strengthNote(pw string) string {
	score, label := account.PasswordStrength(pw)
	if label == "" {
		return fmt.Sprintf("at least %d characters", account.MinPasswordLen)
	}
	pct := float64(score) / float64(account.MaxStrength) * 100
	return cli.RenderProgressBar(pct, 14) + "  " + label
}

func runLogin(_ *cobra.Command, _ []string) error {
	return withServices(func(sv *services) error {
		email := flagEmail
		if email == "" {
			email = sv.dir.LastEmail()
		}
		password := flagPassword

		if flagEmail == "" || password == "" {
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().Title("Email").Value(&email),
					huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password),
				),
			)
			if err := form.Run(); err != nil {
				return err
			}
		}

		u, err := sv.dir.Login(strings.TrimSpace(email), password)
		if err != nil {
			return err
		}
		if u == nil {
			return errInvalidCredentials
		}
		infof("  Welcome back, %s.\n", u.Name)
		return nil
	})
}

func runLogout(_ *cobra.Command, _ []string) error {
	return withServices(func(sv *services) error {
		u := sv.dir.Session()
		if u == nil {
			infof("  Not logged in.\n")
			return nil
		}
		if err := sv.dir.Logout(); err != nil {
			return err
		}
		infof("  Logged out %s.\n", u.Email)
		return nil
	})
}

func runWhoami(_ *cobra.Command, _ []string) error {
	return withServices(func(sv *services) error {
		u := sv.dir.Session()
		if u == nil {
			fmt.Println("  Not logged in.")
			return nil
		}
		fmt.Printf("  %s <%s>\n", u.Name, u.Email)
		return nil
	})
}

func runPasswd(_ *cobra.Command, _ []string) error {
	return withServices(func(sv *services) error {
		u, err := sv.requireUser()
		if err != nil {
			return err
		}

		current, next, confirm := flagPassword, flagNewPass, flagNewPass
		if current == "" || next == "" {
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().Title("Current password").EchoMode(huh.EchoModePassword).Value(&current),
					huh.NewInput().
						Title("New password").
						EchoMode(huh.EchoModePassword).
						Value(&next).
						DescriptionFunc(func() string { return strengthNote(next) }, &next),
					huh.NewInput().Title("Confirm new password").EchoMode(huh.EchoModePassword).Value(&confirm),
				),
			)
			if err := form.Run(); err != nil {
				return err
			}
		}

		if err := account.ValidateNewPassword(current, next, confirm); err != nil {
			return err
		}
		updated, err := sv.dir.ChangePassword(u.ID, current, next)
		if err != nil {
			return err
		}
		if _, err := sv.dir.MirrorSession(updated); err != nil {
			return err
		}
		infof("  Password changed.\n")
		return nil
	})
}
