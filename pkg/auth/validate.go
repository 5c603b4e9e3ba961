package auth

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	// UsernameMinLen and UsernameMaxLen bound the username length
	UsernameMinLen = 3
	UsernameMaxLen = 32

	// PasswordMinLen and PasswordMaxLen bound the password length
	PasswordMinLen = 8
	PasswordMaxLen = 32
)

// PasswordSymbols is the punctuation set a password must draw at least
// one character from.
const PasswordSymbols = "!@#$%^&*()-_=+[]{};:'\",.<>/?\\|~`"

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateUsername checks the username format rules: 3-32 characters,
// letters, digits, underscore and hyphen only.
func ValidateUsername(username string) error {
	if len(username) < UsernameMinLen || len(username) > UsernameMaxLen {
		return &ValidationError{Field: "username", Message: "must be 3-32 characters"}
	}
	if !usernamePattern.MatchString(username) {
		return &ValidationError{Field: "username", Message: "may only contain letters, digits, underscore and hyphen"}
	}
	return nil
}

// ValidatePassword checks the password strength rules: 8-32 characters
// with at least one uppercase letter, one lowercase letter, one digit and
// one symbol from PasswordSymbols.
func ValidatePassword(password string) error {
	if len(password) < PasswordMinLen || len(password) > PasswordMaxLen {
		return &ValidationError{Field: "password", Message: "must be 8-32 characters"}
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(PasswordSymbols, r):
			hasSymbol = true
		}
	}

	switch {
	case !hasUpper:
		return &ValidationError{Field: "password", Message: "must contain an uppercase letter"}
	case !hasLower:
		return &ValidationError{Field: "password", Message: "must contain a lowercase letter"}
	case !hasDigit:
		return &ValidationError{Field: "password", Message: "must contain a digit"}
	case !hasSymbol:
		return &ValidationError{Field: "password", Message: "must contain a symbol"}
	}
	return nil
}
