package services

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/prometheus/client_golang/prometheus"
)

// Operation labels.
const (
	OperationCreateAccount = "create_account"
	OperationLogin         = "login"
	OperationVerify        = "verify"
)

// Token issue kinds.
const (
	TokenKindNew    = "new"
	TokenKindReused = "reused"
)

// AuthOperations counts auth operations by outcome.
// Use RegisterMetrics to register this with a Prometheus registry.
var AuthOperations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gophauth_auth_operations_total",
		Help: "Total number of auth operations by operation and outcome",
	},
	[]string{"operation", "outcome"},
)

// TokensIssued counts tokens handed out on login, split into freshly
// minted and reused ones.
var TokensIssued = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gophauth_tokens_issued_total",
		Help: "Total number of session tokens handed out by kind",
	},
	[]string{"kind"},
)

// PasswordHashDuration observes how long hashing and verifying passwords takes.
var PasswordHashDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "gophauth_password_hash_seconds",
		Help:    "Password hash and verify duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
)

// TokensPruned counts rows removed by the token janitor.
var TokensPruned = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "gophauth_tokens_pruned_total",
		Help: "Total number of expired session tokens deleted",
	},
)

// RegisterMetrics registers the service metrics with reg. Panics if
// registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(AuthOperations, TokensIssued, PasswordHashDuration, TokensPruned)
}

func recordOperation(operation string, err error) {
	AuthOperations.WithLabelValues(operation, outcomeOf(err)).Inc()
}

func observeHash(start time.Time) {
	PasswordHashDuration.Observe(time.Since(start).Seconds())
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, common.ErrUsernameTooShort), errors.Is(err, common.ErrUsernameTooLong),
		errors.Is(err, common.ErrPasswordTooShort), errors.Is(err, common.ErrPasswordTooLong):
		return "invalid_argument"
	case errors.Is(err, common.ErrAccountAlreadyExists):
		return "already_exists"
	case errors.Is(err, common.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, common.ErrTokenExpired):
		return "token_expired"
	case errors.Is(err, common.ErrTokenMismatch):
		return "token_mismatch"
	case errors.Is(err, common.ErrFirstLoginRequired):
		return "first_login_required"
	case errors.Is(err, common.ErrInvalidToken):
		return "invalid_token"
	default:
		return "error"
	}
}
