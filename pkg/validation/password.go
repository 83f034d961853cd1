package validation

import (
	"fmt"
	"strings"
)

const (
	passwordMinLength = 8
	passwordMaxLength = 128
)

var commonSequences = []string{
	"123456", "password", "qwerty", "abc123", "111111",
	"admin", "letmein", "welcome", "monkey", "dragon",
}

const specialChars = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

// PasswordResult reports whether a candidate password meets the strength
// policy, with one message per violated rule.
type PasswordResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// ValidatePassword applies the password strength policy. It never stores
// or logs the candidate; callers decide what to do with the result.
func ValidatePassword(password string) PasswordResult {
	if strings.TrimSpace(password) == "" {
		return PasswordResult{Errors: []string{"Password cannot be empty."}}
	}

	var errs []string

	if len(password) < passwordMinLength {
		errs = append(errs, fmt.Sprintf("Password must be at least %d characters long.", passwordMinLength))
	}
	if len(password) > passwordMaxLength {
		errs = append(errs, fmt.Sprintf("Password must not exceed %d characters.", passwordMaxLength))
	}
	if !strings.ContainsAny(password, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		errs = append(errs, "Password must contain at least one uppercase letter (A-Z).")
	}
	if !strings.ContainsAny(password, "abcdefghijklmnopqrstuvwxyz") {
		errs = append(errs, "Password must contain at least one lowercase letter (a-z).")
	}
	if !strings.ContainsAny(password, "0123456789") {
		errs = append(errs, "Password must contain at least one digit (0-9).")
	}
	if !strings.ContainsAny(password, specialChars) {
		errs = append(errs, "Password must contain at least one special character (!@#$%^&*()_+-=[]{}; etc).")
	}
	if containsCommonSequence(password) {
		errs = append(errs, "Password contains common sequences. Please choose a more unique password.")
	}

	return PasswordResult{Valid: len(errs) == 0, Errors: errs}
}

func containsCommonSequence(password string) bool {
	lower := strings.ToLower(password)
	for _, seq := range commonSequences {
		if strings.Contains(lower, seq) {
			return true
		}
	}
	return false
}
