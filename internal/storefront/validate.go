package storefront

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minUsernameLength = 3
	minPasswordLength = 6
	specialCharacters = `!@#$%^&*(),.?":{}|<>`
)

// ErrInvalidRegistration wraps every client-side registration failure.
var ErrInvalidRegistration = errors.New("invalid registration")

func invalidRegistration(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidRegistration, msg)
}

// ValidateRegistration runs the checks done before a registration is sent.
// They are stricter than the server's, which only enforces the length.
func ValidateRegistration(username, password, confirm string) error {
	if strings.TrimSpace(username) == "" || password == "" || confirm == "" {
		return invalidRegistration("all fields are required")
	}
	if utf8.RuneCountInString(username) < minUsernameLength {
		return invalidRegistration(fmt.Sprintf("username must be at least %d characters", minUsernameLength))
	}
	if password != confirm {
		return invalidRegistration("passwords do not match")
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return invalidRegistration(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(specialCharacters, r):
			special = true
		}
	}
	if !upper || !lower || !digit || !special {
		return invalidRegistration("password must mix upper and lower case letters, digits and special characters")
	}
	return nil
}
