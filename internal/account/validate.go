package account

import (
	"regexp"

	"github.com/theirongolddev/fintrack/internal/model"
)

// MinPasswordLen is the shortest password accepted at registration and on change.
const MinPasswordLen = 6

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// ValidateRegistration applies the registration form rules in order and
// returns the first failure.
func ValidateRegistration(name, email, password, confirm string) error {
	if name == "" || email == "" || password == "" || confirm == "" {
		return model.Validation("Please fill in all fields.")
	}
	if password != confirm {
		return model.Validation("Passwords do not match.")
	}
	if !emailPattern.MatchString(email) {
		return model.Validation("Please enter a valid email address.")
	}
	if len(password) < MinPasswordLen {
		return model.Validation("Password must be at least %d characters long.", MinPasswordLen)
	}
	return nil
}

// ValidateNewPassword checks a password change request before it reaches the
// directory.
func ValidateNewPassword(current, next, confirm string) error {
	if next != confirm {
		return model.Validation("New passwords do not match.")
	}
	if len(next) < MinPasswordLen {
		return model.Validation("New password must be at least %d characters long.", MinPasswordLen)
	}
	if current == "" {
		return model.Validation("Current password is required.")
	}
	return nil
}

var (
	lowerRe   = regexp.MustCompile(`[a-z]`)
	upperRe   = regexp.MustCompile(`[A-Z]`)
	digitRe   = regexp.MustCompile(`[0-9]`)
	specialRe = regexp.MustCompile(`[^a-zA-Z0-9]`)
)

// MaxStrength is the highest score PasswordStrength returns.
const MaxStrength = 7

// PasswordStrength scores pw from 0 to MaxStrength: one point each for
// reaching 6, 8 and 10 characters, and one per character class present.
// The label is empty for an empty password; anything shorter than
// MinPasswordLen scores 1 and is "Too short".
func PasswordStrength(pw string) (int, string) {
	if pw == "" {
		return 0, ""
	}
	if len(pw) < MinPasswordLen {
		return 1, "Too short"
	}
	score := 0
	for _, n := range []int{6, 8, 10} {
		if len(pw) >= n {
			score++
		}
	}
	for _, re := range []*regexp.Regexp{lowerRe, upperRe, digitRe, specialRe} {
		if re.MatchString(pw) {
			score++
		}
	}

	switch {
	case score <= 2:
		return score, "Too weak"
	case score <= 4:
		return score, "Weak"
	case score <= 6:
		return score, "Medium"
	default:
		return score, "Strong"
	}
}
