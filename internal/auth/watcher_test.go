package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitForStoredTokenAlreadyPresent(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(&Token{
		AccessToken: "A",
		ExpiresAt:   time.Now().Add(time.Hour),
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.NoError(t, WaitForStoredToken(ctx, store))
}

func TestWaitForStoredTokenAppearsLater(t *testing.T) {
	store := newTestStore(t)

	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = store.Save(&Token{
			AccessToken: "A",
			ExpiresAt:   time.Now().Add(time.Hour),
		})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	assert.NoError(t, WaitForStoredToken(ctx, store))
}

func TestWaitForStoredTokenIgnoresExpired(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(&Token{
		AccessToken: "stale",
		ExpiresAt:   time.Now().Add(-time.Hour),
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	err := WaitForStoredToken(ctx, store)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWaitForStoredTokenCancelled(t *testing.T) {
	store := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := WaitForStoredToken(ctx, store)
	assert.ErrorIs(t, err, context.Canceled)
}
