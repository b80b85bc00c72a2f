package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) *sql.DB {
	t.Helper()
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func discardLogger() logging.Logger {
	return logging.NewJSONLogger(io.Discard, slog.LevelError)
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:             "test-secret",
		TokenValidityDuration: 24 * time.Hour,
		TokenRenewalThreshold: time.Hour,
		TokenRetention:        time.Hour,
		TokenCleanupInterval:  10 * time.Millisecond,
	}
}

func testHasher(t *testing.T) auth.PasswordHasher {
	t.Helper()
	h, err := auth.NewArgon2idHasher(auth.Argon2Params{Iterations: 1, MemoryKiB: 1024, Threads: 1})
	if err != nil {
		t.Fatalf("NewArgon2idHasher error: %v", err)
	}
	return h
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// --- fake repositories ---

type fakeUsersRepo struct {
	mu       sync.Mutex
	accounts map[string]models.Account
	nextID   int64

	createErr error
	getErr    error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{accounts: map[string]models.Account{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, account *models.Account) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return false, f.createErr
	}
	if _, ok := f.accounts[account.Username]; ok {
		return false, nil
	}
	f.nextID++
	account.ID = f.nextID
	f.accounts[account.Username] = *account
	return true, nil
}

func (f *fakeUsersRepo) GetUserByLogin(ctx context.Context, username string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	a, ok := f.accounts[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &a, nil
}

type fakeTokensRepo struct {
	mu   sync.Mutex
	rows []models.SessionToken

	mostRecentErr error
	createErr     error
	deleteErr     error
	cutoffs       []time.Time

	// called after MostRecent has read the rows, outside the lock
	afterMostRecent func()
}

func (f *fakeTokensRepo) MostRecent(ctx context.Context, userID int64) (*models.SessionToken, error) {
	f.mu.Lock()
	err := f.mostRecentErr
	var best *models.SessionToken
	for i := range f.rows {
		r := f.rows[i]
		if r.UserID != userID {
			continue
		}
		if best == nil || !r.ExpiresAt.Before(best.ExpiresAt) {
			best = &r
		}
	}
	hook := f.afterMostRecent
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	if err != nil {
		return nil, err
	}
	if best == nil {
		return nil, common.ErrorNotFound
	}
	return best, nil
}

func (f *fakeTokensRepo) Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.rows = append(f.rows, models.SessionToken{
		ID:        int64(len(f.rows) + 1),
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	})
	return nil
}

func (f *fakeTokensRepo) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoffs = append(f.cutoffs, cutoff)
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	kept := f.rows[:0]
	var deleted int64
	for _, r := range f.rows {
		if r.ExpiresAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	f.rows = kept
	return deleted, nil
}

func (f *fakeTokensRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

type fakeRepoManager struct {
	users  *fakeUsersRepo
	tokens *fakeTokensRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{users: newFakeUsersRepo(), tokens: &fakeTokensRepo{}}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository           { return m.users }
func (m *fakeRepoManager) Tokens(db dbx.DBTX) tokens.Repository         { return m.tokens }
