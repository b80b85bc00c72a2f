package models

import "time"

// SessionToken is one issued session token row. Several rows may exist for
// the same user; only the one with the latest ExpiresAt is ever consulted.
type SessionToken struct {
	ID        int64
	UserID    int64
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Remaining reports how long the token stays valid after now.
func (t *SessionToken) Remaining(now time.Time) time.Duration {
	return t.ExpiresAt.Sub(now)
}
