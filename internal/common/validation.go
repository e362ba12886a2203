package common

import (
	"errors"
	"regexp"
	"strings"
)

var (
	emailRegex  = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)
	handleRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

const MaxMessageLength = 4000

func ValidateHandle(handle string) error {
	handle = strings.TrimSpace(handle)
	if len(handle) < 3 || len(handle) > 50 {
		return errors.New("handle must be between 3 and 50 characters")
	}
	if !handleRegex.MatchString(handle) {
		return errors.New("handle can only contain letters, numbers, and underscores")
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 6 {
		return errors.New("password must be at least 6 characters long")
	}
	if len(password) > 72 {
		return errors.New("password is too long")
	}
	return nil
}

func ValidateEmail(email string) error {
	if email == "" {
		return nil
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegex.MatchString(email) {
		return errors.New("invalid email format")
	}
	return nil
}

// ValidateMessageText rejects blank or oversized text bodies.
func ValidateMessageText(content string) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return ErrEmptyMessage
	}
	if len(trimmed) > MaxMessageLength {
		return Validation("message is too long")
	}
	return nil
}
