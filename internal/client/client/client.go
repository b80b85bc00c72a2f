package client

import (
	"context"
	"time"
)

// Session is what the server returns on register and login.
type Session struct {
	Token    string
	Expiry   time.Time
	ID       int64
	Username string
	Name     string
	LastName string
	Email    string
}

// Client is the GophAuth API as seen by the CLI.
type Client interface {
	Register(ctx context.Context, username, password, name, lastName, email string) (*Session, error)
	Login(ctx context.Context, username, password string) (*Session, error)
	// Verify checks token, or the current session token when token is empty,
	// and returns the user id it belongs to.
	Verify(ctx context.Context, token string) (int64, error)
	Close() error
}
