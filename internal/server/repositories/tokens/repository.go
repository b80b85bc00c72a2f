// Package tokens declares the repository contract for issued session tokens
// and its PostgreSQL implementation.
package tokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository stores issued session tokens. Rows are append-only from the
// point of view of the auth flow.
type Repository interface {
	// MostRecent returns the user's token with the latest expiry (ties go
	// to the later insert), or common.ErrorNotFound.
	MostRecent(ctx context.Context, userID int64) (*models.SessionToken, error)

	// Create appends a token row. Earlier rows for the user are kept.
	Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error

	// DeleteExpiredBefore removes tokens that expired before cutoff and
	// returns how many rows were deleted.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
