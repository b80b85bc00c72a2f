// Package dbx provides tiny DB abstractions shared by repositories:
// a minimal interface (DBTX) implemented by *sql.DB, *sql.Tx and *sql.Conn,
// a helper scoping a pooled connection to one operation, and Open, which
// waits for the database to accept connections.
package dbx

import (
	"context"
	"database/sql"
	"time"

	"github.com/sethvargo/go-retry"
)

// DBTX is the subset of database/sql used by our repos.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithConn checks a single connection out of the pool, runs fn with it and
// returns it to the pool afterwards, whether fn succeeds, fails or panics.
//
// Typical use:
//
//	err := dbx.WithConn(ctx, db, func(ctx context.Context, conn dbx.DBTX) error {
//	    return repos.Users(conn).Create(ctx, account)
//	})
func WithConn(ctx context.Context, db *sql.DB, fn func(ctx context.Context, conn DBTX) error) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	return fn(ctx, conn)
}

// Open opens a database handle and pings it until it answers, backing off
// exponentially from baseDelay for at most attempts retries. The handle is
// closed when the database never becomes reachable.
func Open(ctx context.Context, driverName, dsn string, attempts uint64, baseDelay time.Duration) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}

	backoff := retry.WithMaxRetries(attempts, retry.NewExponential(baseDelay))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
