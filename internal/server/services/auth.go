// Package services contains server-side business logic. This file implements
// AuthService, which handles registration, login with session token reuse,
// and token verification.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/golang-jwt/jwt/v5"
)

// AuthResult is returned by a successful registration or login.
type AuthResult struct {
	Token    string
	Expiry   time.Time
	ID       int64
	Username string
	Name     string
	LastName string
	Email    string
}

// AuthService provides authentication operations:
//   - CreateAccount: validate, hash and store a new account, then log it in
//   - Login: check credentials and hand out a session token
//   - IssueOrReuseToken: reuse the latest token or mint a new one
//   - Verify: accept only the most recently issued, unexpired token
type AuthService struct {
	db               *sql.DB
	repomanager      repomanager.RepositoryManager
	hasher           auth.PasswordHasher
	logger           logging.Logger
	jwtSecret        []byte
	tokenValidity    time.Duration
	renewalThreshold time.Duration
	now              func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, h auth.PasswordHasher, cfg *config.Config, logger logging.Logger) *AuthService {
	return &AuthService{
		db:               db,
		repomanager:      m,
		hasher:           h,
		logger:           logger.With("module", "auth_service"),
		jwtSecret:        []byte(cfg.SecretKey),
		tokenValidity:    cfg.TokenValidityDuration,
		renewalThreshold: cfg.TokenRenewalThreshold,
		now:              time.Now,
	}
}

// CreateAccount registers a new account and logs it in with the same
// credentials. An existing username yields common.ErrAccountAlreadyExists
// and leaves the stored account untouched.
func (s *AuthService) CreateAccount(ctx context.Context, username, password, name, lastName, email string) (result *AuthResult, err error) {
	defer func() { recordOperation(OperationCreateAccount, err) }()

	if err := models.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := models.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := s.hash(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	account := models.NewAccount(username, hash, name, lastName, email)

	var inserted bool
	if err := dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) error {
		var createErr error
		inserted, createErr = s.repomanager.Users(conn).Create(ctx, account)
		return createErr
	}); err != nil {
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	if !inserted {
		return nil, common.ErrAccountAlreadyExists
	}

	s.logger.Info(ctx, "account created", "user_id", account.ID)

	return s.login(ctx, username, password)
}

// Login checks the credentials and returns a session token together with the
// account profile. Unknown usernames and wrong passwords both yield
// common.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (result *AuthResult, err error) {
	defer func() { recordOperation(OperationLogin, err) }()
	return s.login(ctx, username, password)
}

func (s *AuthService) login(ctx context.Context, username, password string) (*AuthResult, error) {
	var result *AuthResult

	err := dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) error {
		account, err := s.repomanager.Users(conn).GetUserByLogin(ctx, username)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				s.burnHash(password)
				return common.ErrInvalidCredentials
			}
			return fmt.Errorf("error searching account: %w", err)
		}

		ok, err := s.verify(password, account.PasswordHash)
		if err != nil {
			return fmt.Errorf("error verifying password: %w", err)
		}
		if !ok {
			return common.ErrInvalidCredentials
		}

		token, expiry, err := s.issueOrReuseToken(ctx, conn, account.ID)
		if err != nil {
			return err
		}

		result = &AuthResult{
			Token:    token,
			Expiry:   expiry,
			ID:       account.ID,
			Username: account.Username,
			Name:     account.Name,
			LastName: account.LastName,
			Email:    account.Email,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// IssueOrReuseToken returns the user's most recent token while it has more
// than the renewal threshold left, otherwise mints and stores a new one.
func (s *AuthService) IssueOrReuseToken(ctx context.Context, userID int64) (token string, expiry time.Time, err error) {
	err = dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) error {
		var issueErr error
		token, expiry, issueErr = s.issueOrReuseToken(ctx, conn, userID)
		return issueErr
	})
	return token, expiry, err
}

func (s *AuthService) issueOrReuseToken(ctx context.Context, conn dbx.DBTX, userID int64) (string, time.Time, error) {
	repo := s.repomanager.Tokens(conn)
	now := s.now()

	current, err := repo.MostRecent(ctx, userID)
	switch {
	case err == nil:
		if current.Remaining(now) > s.renewalThreshold {
			TokensIssued.WithLabelValues(TokenKindReused).Inc()
			return current.Token, current.ExpiresAt, nil
		}
	case errors.Is(err, common.ErrorNotFound):
	default:
		return "", time.Time{}, fmt.Errorf("error searching token: %w", err)
	}

	// the token carries whole seconds, keep the stored expiry identical
	issuedAt := now.Truncate(time.Second)
	expiresAt := issuedAt.Add(s.tokenValidity)

	token, err := auth.GenerateToken(userID, s.jwtSecret, issuedAt, expiresAt)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("error generating token: %w", err)
	}

	if err := repo.Create(ctx, userID, token, expiresAt); err != nil {
		return "", time.Time{}, fmt.Errorf("error saving token: %w", err)
	}

	TokensIssued.WithLabelValues(TokenKindNew).Inc()
	s.logger.Debug(ctx, "session token issued", "user_id", userID, "expires_at", expiresAt)

	return token, expiresAt, nil
}

// Verify checks the signature and expiry of token and that it is the most
// recent token issued to its user. It returns the user id from the token.
func (s *AuthService) Verify(ctx context.Context, token string) (userID int64, err error) {
	defer func() { recordOperation(OperationVerify, err) }()

	claims, err := auth.ParseToken(token, s.jwtSecret, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return 0, common.ErrTokenExpired
		}
		s.logger.Debug(ctx, "token rejected", "error", err)
		return 0, common.ErrInvalidToken
	}

	var stored *models.SessionToken
	err = dbx.WithConn(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) error {
		var findErr error
		stored, findErr = s.repomanager.Tokens(conn).MostRecent(ctx, claims.UserID)
		return findErr
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return 0, common.ErrFirstLoginRequired
		}
		s.logger.Error(ctx, "error searching token", "user_id", claims.UserID, "error", err)
		return 0, common.ErrInvalidToken
	}

	if subtle.ConstantTimeCompare([]byte(token), []byte(stored.Token)) != 1 {
		return 0, common.ErrTokenMismatch
	}

	return claims.UserID, nil
}

func (s *AuthService) hash(password string) (string, error) {
	defer observeHash(time.Now())
	return s.hasher.Hash(password)
}

func (s *AuthService) verify(password, hash string) (bool, error) {
	defer observeHash(time.Now())
	return s.hasher.Verify(password, hash)
}

// burnHash verifies password against a throwaway hash, keeping the
// unknown-username path as slow as a real password check.
func (s *AuthService) burnHash(password string) {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("gophauth-dummy-password")
		if err != nil {
			s.logger.Warn(context.Background(), "error preparing dummy hash", "error", err)
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash != "" {
		_, _ = s.verify(password, s.dummyHash)
	}
}
