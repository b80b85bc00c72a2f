package users

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

type Repository interface {
	// Create inserts the account unless the username is already taken, in
	// which case it reports false and leaves the existing row untouched.
	// On success account.ID is set.
	Create(ctx context.Context, account *models.Account) (bool, error)

	// GetUserByLogin returns the account with its stored password hash, or
	// common.ErrorNotFound.
	GetUserByLogin(ctx context.Context, username string) (*models.Account, error)
}
