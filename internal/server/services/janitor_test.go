package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func newTokenJanitor(t *testing.T) (*TokenJanitor, *fakeRepoManager, *fakeClock) {
	t.Helper()
	rm := newFakeRepoManager()
	clock := newFakeClock()
	j := NewTokenJanitor(newSQLMockDB(t), rm, testConfig(), discardLogger())
	j.now = clock.Now
	return j, rm, clock
}

func TestTokenJanitor_PruneOnce(t *testing.T) {
	j, rm, clock := newTokenJanitor(t)
	now := clock.Now()
	rm.tokens.rows = []models.SessionToken{
		{ID: 1, UserID: 1, Token: "old", ExpiresAt: now.Add(-2 * time.Hour)},
		{ID: 2, UserID: 1, Token: "recent", ExpiresAt: now.Add(-30 * time.Minute)},
		{ID: 3, UserID: 2, Token: "live", ExpiresAt: now.Add(time.Hour)},
	}
	before := testutil.ToFloat64(TokensPruned)

	deleted, err := j.PruneOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), deleted)
	assert.Equal(t, []time.Time{now.Add(-time.Hour)}, rm.tokens.cutoffs)
	assert.Equal(t, 2, rm.tokens.count())
	assert.Equal(t, before+1, testutil.ToFloat64(TokensPruned))
}

func TestTokenJanitor_PruneOnceError(t *testing.T) {
	j, rm, _ := newTokenJanitor(t)
	rm.tokens.deleteErr = errors.New("delete failed")

	_, err := j.PruneOnce(context.Background())
	require.ErrorIs(t, err, rm.tokens.deleteErr)
}

func TestTokenJanitor_Enabled(t *testing.T) {
	j, _, _ := newTokenJanitor(t)
	assert.True(t, j.Enabled())

	j.retention = 0
	assert.False(t, j.Enabled())
}

func TestTokenJanitor_RunStopsOnCancel(t *testing.T) {
	j, rm, clock := newTokenJanitor(t)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	rm.tokens.rows = []models.SessionToken{
		{ID: 1, UserID: 1, Token: "old", ExpiresAt: clock.Now().Add(-2 * time.Hour)},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		j.Run(ctx)
	}()

	require.Eventually(t, func() bool { return rm.tokens.count() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}

func TestTokenJanitor_RunDisabledReturns(t *testing.T) {
	j, rm, _ := newTokenJanitor(t)
	j.retention = 0

	done := make(chan struct{})
	go func() {
		defer close(done)
		j.Run(context.Background())
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disabled janitor kept running")
	}
	assert.Empty(t, rm.tokens.cutoffs)
}
