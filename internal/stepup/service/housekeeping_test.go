package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/shiftwise/stepup/internal/stepup/domain"
	"github.com/shiftwise/stepup/internal/stepup/store"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingSweep(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := seedUser(t, env, "u-alice", "alice", false)

	now := time.Now().UTC()
	stale := now.Add(-sessionRetention - time.Hour)
	fresh := now.Add(-time.Minute)

	require.NoError(t, env.store.VerificationSessions().UpsertSession(ctx, domain.VerificationSession{
		SessionID: "sess-stale", UserID: user.ID, Fingerprint: "fp", VerifiedAt: &stale,
	}))
	require.NoError(t, env.store.VerificationSessions().UpsertSession(ctx, domain.VerificationSession{
		SessionID: "sess-fresh", UserID: user.ID, Fingerprint: "fp", VerifiedAt: &fresh,
	}))
	require.NoError(t, env.store.PendingCodes().UpsertPendingCode(ctx, domain.PendingCode{
		UserID: user.ID, CodeHash: "x", Method: domain.MethodEmail, ExpiresAt: now.Add(-time.Minute),
	}))
	require.NoError(t, env.store.RateAttempts().RecordAttempt(ctx, user.ID, ActionVerify, now.Add(-2*time.Hour)))
	require.NoError(t, env.store.TrustedDevices().CreateDevice(ctx, domain.TrustedDevice{
		ID: "dev-expired", UserID: user.ID, TokenHash: "th",
		CreatedAt: stale, LastUsedAt: stale, ExpiresAt: now.Add(-time.Minute),
	}))

	hk := NewHousekeepingService(env.store, slog.Default(), time.Hour)
	hk.Sweep(ctx)

	_, err := env.store.VerificationSessions().GetSession(ctx, "sess-stale")
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = env.store.VerificationSessions().GetSession(ctx, "sess-fresh")
	require.NoError(t, err)

	_, err = env.store.PendingCodes().GetPendingCode(ctx, user.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	count, err := env.store.RateAttempts().CountAttemptsSince(ctx, user.ID, ActionVerify, now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Zero(t, count)

	devices, err := env.store.TrustedDevices().ListDevicesByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, devices)
}

func TestHousekeepingStartStop(t *testing.T) {
	env := newTestEnv(t)

	hk := NewHousekeepingService(env.store, slog.Default(), 10*time.Millisecond)
	hk.Start()
	time.Sleep(30 * time.Millisecond)
	hk.Stop()
}
