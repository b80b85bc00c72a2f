// Package users provides the PostgreSQL-backed account repository.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (bool, error) {
	query :=
		`INSERT INTO accounts (username, password_hash, name, last_name, email)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (username) DO NOTHING
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.Username, account.PasswordHash, account.Name, account.LastName, account.Email).Scan(&account.ID)

	if err != nil {
		// ON CONFLICT DO NOTHING returns no row
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("db error: %w", err)
	}

	return true, nil
}

func (r *PostgresRepository) GetUserByLogin(ctx context.Context, username string) (*models.Account, error) {
	query :=
		`SELECT id, username, password_hash, name, last_name, email, email_verified, created_at, updated_at
		 FROM accounts
		 WHERE username = $1
		 `

	a := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&a.ID, &a.Username, &a.PasswordHash, &a.Name, &a.LastName, &a.Email, &a.EmailVerified, &a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return a, nil
}
