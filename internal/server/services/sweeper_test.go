package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func seedToken(t *testing.T, e *env, userID string, kind models.TokenKind, expiresAt time.Time) *models.UserToken {
	t.Helper()
	row, err := e.store.UserTokens().Create(context.Background(), &models.UserToken{
		UserID:    userID,
		Kind:      kind,
		Token:     string(kind) + expiresAt.String(),
		ExpiresAt: expiresAt,
	})
	require.NoError(t, err)
	return row
}

func TestSweepOnce(t *testing.T) {
	e := newEnv(t)
	sw := NewTokenSweeper(e.deps)
	u := register(t, e, "Alice", "alice@example.com", "password123")

	seedToken(t, e, u.ID, models.TokenKindVerifyEmail, t0.Add(-time.Hour))
	seedToken(t, e, u.ID, models.TokenKindResetPassword, t0)
	live := seedToken(t, e, u.ID, models.TokenKindRefresh, t0.Add(time.Hour))

	n, err := sw.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, err = e.store.UserTokens().FindByToken(context.Background(), live.Token)
	assert.NoError(t, err)

	n, err = sw.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSweeperRun_StopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	e := newEnv(t)
	u := register(t, e, "Alice", "alice@example.com", "password123")
	seedToken(t, e, u.ID, models.TokenKindVerifyEmail, t0.Add(-time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewTokenSweeper(e.deps).Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		_, err := e.store.UserTokens().FindByUserID(context.Background(), u.ID, models.TokenKindVerifyEmail)
		return err != nil
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
