// Package models defines server-side data models persisted in the database.
package models

import (
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

// Length limits for account credentials, counted in characters.
const (
	UsernameMinLength = 6
	UsernameMaxLength = 30
	PasswordMinLength = 4
	PasswordMaxLength = 300
)

// Account is a registered user identity.
//
// PasswordHash always holds the one-way hash; plaintext passwords never
// reach this struct.
type Account struct {
	ID            int64
	Username      string
	PasswordHash  string
	Name          string
	LastName      string
	Email         string
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewAccount builds an unsaved account. Callers validate the credentials
// (ValidateUsername, ValidatePassword) and hash the password first.
func NewAccount(username, passwordHash, name, lastName, email string) *Account {
	return &Account{
		Username:     username,
		PasswordHash: passwordHash,
		Name:         name,
		LastName:     lastName,
		Email:        email,
	}
}

// ValidateUsername checks the username length bounds.
func ValidateUsername(username string) error {
	return validateLength(common.FieldUsername, username, UsernameMinLength, UsernameMaxLength,
		common.ErrUsernameTooShort, common.ErrUsernameTooLong)
}

// ValidatePassword checks the plaintext password length bounds.
func ValidatePassword(password string) error {
	return validateLength(common.FieldPassword, password, PasswordMinLength, PasswordMaxLength,
		common.ErrPasswordTooShort, common.ErrPasswordTooLong)
}

func validateLength(field, value string, minLen, maxLen int, tooShort, tooLong error) error {
	n := utf8.RuneCountInString(value)
	switch {
	case n < minLen:
		return &common.ValidationError{Field: field, Err: tooShort}
	case n > maxLen:
		return &common.ValidationError{Field: field, Err: tooLong}
	}
	return nil
}
