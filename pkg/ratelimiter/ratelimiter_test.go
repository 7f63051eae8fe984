package ratelimiter_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailcraft/core/logger"
	"github.com/dmitrymomot/mailcraft/pkg/ratelimiter"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
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

var cfg = ratelimiter.Config{Capacity: 3, RefillRate: 1, RefillInterval: time.Second}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  ratelimiter.Config
		ok   bool
	}{
		{"valid", cfg, true},
		{"zero capacity", ratelimiter.Config{RefillRate: 1, RefillInterval: time.Second}, false},
		{"zero rate", ratelimiter.Config{Capacity: 1, RefillInterval: time.Second}, false},
		{"zero interval", ratelimiter.Config{Capacity: 1, RefillRate: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if tt.ok {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
		})
	}

	_, err := ratelimiter.NewBucket(nil, cfg)
	require.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
}

func TestBucket(t *testing.T) {
	t.Parallel()

	t.Run("drains, denies and refills", func(t *testing.T) {
		t.Parallel()
		clock := newClock()
		b, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(ratelimiter.WithClock(clock.Now)), cfg)
		require.NoError(t, err)
		ctx := t.Context()

		for want := 2; want >= 0; want-- {
			res, err := b.Allow(ctx, "ip")
			require.NoError(t, err)
			assert.True(t, res.Allowed())
			assert.Equal(t, want, res.Remaining)
			assert.Equal(t, 3, res.Limit)
		}

		res, err := b.Allow(ctx, "ip")
		require.NoError(t, err)
		assert.False(t, res.Allowed())
		assert.Equal(t, clock.Now().Add(time.Second), res.ResetAt)

		other, err := b.Allow(ctx, "other")
		require.NoError(t, err)
		assert.True(t, other.Allowed())

		clock.Advance(1500 * time.Millisecond)
		res, err = b.Allow(ctx, "ip")
		require.NoError(t, err)
		assert.True(t, res.Allowed())
		assert.Equal(t, 0, res.Remaining)

		clock.Advance(500 * time.Millisecond)
		res, err = b.Allow(ctx, "ip")
		require.NoError(t, err)
		assert.True(t, res.Allowed(), "partial interval carries over")
	})

	t.Run("denied requests do not drain", func(t *testing.T) {
		t.Parallel()
		b, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(ratelimiter.WithClock(newClock().Now)), cfg)
		require.NoError(t, err)

		res, err := b.AllowN(t.Context(), "k", 2)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Remaining)

		res, err = b.AllowN(t.Context(), "k", 2)
		require.NoError(t, err)
		assert.False(t, res.Allowed())
		assert.Equal(t, -1, res.Remaining)

		res, err = b.Allow(t.Context(), "k")
		require.NoError(t, err)
		assert.True(t, res.Allowed())
	})

	t.Run("token count bounds", func(t *testing.T) {
		t.Parallel()
		b, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), cfg)
		require.NoError(t, err)
		_, err = b.AllowN(t.Context(), "k", 0)
		require.ErrorIs(t, err, ratelimiter.ErrInvalidTokenCount)
		_, err = b.AllowN(t.Context(), "k", 4)
		require.ErrorIs(t, err, ratelimiter.ErrInvalidTokenCount)
	})

	t.Run("reset refills", func(t *testing.T) {
		t.Parallel()
		b, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), cfg)
		require.NoError(t, err)
		_, err = b.AllowN(t.Context(), "k", 3)
		require.NoError(t, err)
		require.NoError(t, b.Reset(t.Context(), "k"))
		res, err := b.AllowN(t.Context(), "k", 3)
		require.NoError(t, err)
		assert.True(t, res.Allowed())
	})
}

func TestResultRetryAfter(t *testing.T) {
	t.Parallel()
	assert.Zero(t, ratelimiter.Result{Remaining: 0}.RetryAfter())
	assert.Zero(t, ratelimiter.Result{Remaining: -1, ResetAt: time.Now().Add(-time.Second)}.RetryAfter())
	assert.Greater(t, ratelimiter.Result{Remaining: -1, ResetAt: time.Now().Add(time.Minute)}.RetryAfter(), 30*time.Second)
}

func TestMemoryStoreCleanup(t *testing.T) {
	t.Parallel()
	clock := newClock()
	store := ratelimiter.NewMemoryStore(ratelimiter.WithClock(clock.Now))
	ctx := t.Context()

	_, _, err := store.ConsumeTokens(ctx, "old", 1, cfg)
	require.NoError(t, err)
	clock.Advance(2 * time.Hour)
	_, _, err = store.ConsumeTokens(ctx, "fresh", 1, cfg)
	require.NoError(t, err)

	assert.Equal(t, 2, store.Len())
	assert.Equal(t, 1, store.RemoveStale())
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStoreRun(t *testing.T) {
	t.Parallel()
	store := ratelimiter.NewMemoryStore(
		ratelimiter.WithCleanupInterval(10*time.Millisecond),
		ratelimiter.WithMemoryStoreLogger(logger.Discard()),
	)
	require.Error(t, store.Healthcheck(t.Context()))

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- store.Run(ctx)() }()

	require.Eventually(t, func() bool { return store.Healthcheck(t.Context()) == nil }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
	assert.Error(t, store.Healthcheck(t.Context()))
}
