// Package common defines sentinel errors and constants shared by the server,
// the transport layer and the CLI client. Callers match errors with errors.Is.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Account validation errors. Returned wrapped in a *ValidationError.
	ErrUsernameTooShort = errors.New("username too short")
	ErrUsernameTooLong  = errors.New("username too long")
	ErrPasswordTooShort = errors.New("password too short")
	ErrPasswordTooLong  = errors.New("password too long")

	// Registration / login errors.
	ErrAccountAlreadyExists = errors.New("account already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")

	// Token verification errors.
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenMismatch      = errors.New("token does not match")
	ErrFirstLoginRequired = errors.New("first login required")

	// Hasher errors.
	ErrMalformedHash = errors.New("malformed password hash")
)

// ValidationError reports which account field broke which rule.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
