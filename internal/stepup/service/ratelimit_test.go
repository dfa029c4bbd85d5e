package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimiterCeiling(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ceiling := ceilingFor(ActionCodeRequest)
	for i := range ceiling {
		require.NoError(t, env.limiter.CheckAndRecord(ctx, "u-alice", ActionCodeRequest), "attempt %d", i+1)
	}

	err := env.limiter.CheckAndRecord(ctx, "u-alice", ActionCodeRequest)
	require.ErrorIs(t, err, ErrRateLimited)
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for range ceilingFor(ActionCodeRequest) {
		require.NoError(t, env.limiter.CheckAndRecord(ctx, "u-alice", ActionCodeRequest))
	}
	require.ErrorIs(t, env.limiter.CheckAndRecord(ctx, "u-alice", ActionCodeRequest), ErrRateLimited)

	// Another subject, and another action for the same subject, still pass.
	require.NoError(t, env.limiter.CheckAndRecord(ctx, "u-bob", ActionCodeRequest))
	require.NoError(t, env.limiter.CheckAndRecord(ctx, "u-alice", ActionVerify))
}

func TestRateLimiterRecoversAsAttemptsAge(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Fill the window with attempts that are already stale.
	old := time.Now().UTC().Add(-rateWindow - time.Minute)
	for range ceilingFor(ActionVerify) {
		require.NoError(t, env.store.RateAttempts().RecordAttempt(ctx, "u-alice", ActionVerify, old))
	}

	// They age out of the rolling window, so a fresh attempt is admitted.
	require.NoError(t, env.limiter.CheckAndRecord(ctx, "u-alice", ActionVerify))

	remaining, err := env.limiter.Remaining(ctx, "u-alice", ActionVerify)
	require.NoError(t, err)
	require.Equal(t, ceilingFor(ActionVerify)-1, remaining)
}

func TestRateLimiterUnknownActionUsesDefaultCeiling(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for range defaultRateCeiling {
		require.NoError(t, env.limiter.CheckAndRecord(ctx, "u-alice", "something_else"))
	}
	require.ErrorIs(t, env.limiter.CheckAndRecord(ctx, "u-alice", "something_else"), ErrRateLimited)
}
