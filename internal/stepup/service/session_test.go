package service

import (
	"context"
	"testing"
	"time"

	"github.com/shiftwise/stepup/internal/stepup/domain"
	"github.com/stretchr/testify/require"
)

func TestSessionVerifyWindow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedUser(t, env, "u-alice", "alice", false)

	require.NoError(t, env.sessions.MarkVerified(ctx, "sess-1", "u-alice", "fp"))

	ok, err := env.sessions.IsVerified(ctx, "sess-1", "u-alice", "fp")
	require.NoError(t, err)
	require.True(t, ok)

	// Push verified_at past the validity window.
	stale := time.Now().UTC().Add(-sessionValidity - time.Minute)
	require.NoError(t, env.store.VerificationSessions().UpsertSession(ctx, domain.VerificationSession{
		SessionID:   "sess-2",
		UserID:      "u-alice",
		Fingerprint: "fp",
		VerifiedAt:  &stale,
	}))

	ok, err = env.sessions.IsVerified(ctx, "sess-2", "u-alice", "fp")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSessionClearInvalidatesImmediately(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.sessions.MarkVerified(ctx, "sess-1", "u-alice", "fp"))
	require.NoError(t, env.sessions.Clear(ctx, "sess-1"))

	ok, err := env.sessions.IsVerified(ctx, "sess-1", "u-alice", "fp")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSessionFingerprintMismatchInvalidates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.sessions.MarkVerified(ctx, "sess-1", "u-alice", "fp-original"))

	ok, err := env.sessions.IsVerified(ctx, "sess-1", "u-alice", "fp-other")
	require.NoError(t, err)
	require.False(t, ok)

	// The mismatch burned the verification even for the original client.
	ok, err = env.sessions.IsVerified(ctx, "sess-1", "u-alice", "fp-original")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSessionUserMismatchInvalidates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.sessions.MarkVerified(ctx, "sess-1", "u-alice", "fp"))

	ok, err := env.sessions.IsVerified(ctx, "sess-1", "u-mallory", "fp")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSessionRefreshSlidesWindow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Verified with just under the refresh window left.
	aging := time.Now().UTC().Add(-sessionValidity + sessionRefreshWindow - time.Minute)
	require.NoError(t, env.store.VerificationSessions().UpsertSession(ctx, domain.VerificationSession{
		SessionID:   "sess-1",
		UserID:      "u-alice",
		Fingerprint: "fp",
		VerifiedAt:  &aging,
	}))

	ok, err := env.sessions.IsVerified(ctx, "sess-1", "u-alice", "fp")
	require.NoError(t, err)
	require.True(t, ok)

	sess, err := env.store.VerificationSessions().GetSession(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, sess.VerifiedAt)
	require.WithinDuration(t, time.Now(), *sess.VerifiedAt, 5*time.Second)
}

func TestSessionReminderOncePerSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	due, err := env.sessions.ReminderDue(ctx, "sess-1", "u-alice", "fp")
	require.NoError(t, err)
	require.True(t, due)

	due, err = env.sessions.ReminderDue(ctx, "sess-1", "u-alice", "fp")
	require.NoError(t, err)
	require.False(t, due)
}

func TestSessionReminderSurvivesVerification(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	due, err := env.sessions.ReminderDue(ctx, "sess-1", "u-alice", "fp")
	require.NoError(t, err)
	require.True(t, due)

	// Marking verified keeps the reminder flag on the same row.
	require.NoError(t, env.sessions.MarkVerified(ctx, "sess-1", "u-alice", "fp"))

	due, err = env.sessions.ReminderDue(ctx, "sess-1", "u-alice", "fp")
	require.NoError(t, err)
	require.False(t, due)
}
