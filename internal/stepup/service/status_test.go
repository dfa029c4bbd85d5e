package service

import (
	"context"
	"testing"

	"github.com/shiftwise/stepup/internal/stepup/domain"
	"github.com/shiftwise/stepup/internal/stepup/store"
	"github.com/stretchr/testify/require"
)

func statusReq(userID, sessionID string) StatusRequest {
	return StatusRequest{
		UserID:    userID,
		SessionID: sessionID,
		UserAgent: "test-agent",
		IPAddress: "203.0.113.9",
	}
}

func TestResolveUnknownUserForcesLogin(t *testing.T) {
	env := newTestEnv(t)

	verdict, err := env.status.Resolve(context.Background(), statusReq("ghost", "sess-1"))
	require.NoError(t, err)
	require.Equal(t, domain.StatusError, verdict.Status)
	require.Equal(t, domain.ActionLogin, verdict.Action)
}

func TestResolveSystemDisabledProceedsWithoutRecord(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := seedUser(t, env, "u-alice", "alice", false)

	settings, err := env.settings.Get(ctx)
	require.NoError(t, err)
	settings.SystemEnabled = false
	_, err = env.settings.Update(ctx, settings)
	require.NoError(t, err)

	verdict, err := env.status.Resolve(ctx, statusReq(user.ID, "sess-1"))
	require.NoError(t, err)
	require.Equal(t, domain.StatusNotRequired, verdict.Status)
	require.Equal(t, domain.ActionProceed, verdict.Action)

	// No 2fa record gets created when the policy never applied.
	_, err = env.store.TwoFactor().GetRecord(ctx, user.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestResolveAdminOnlyPolicySkipsRegularUsers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	regular := seedUser(t, env, "u-bob", "bob", false)
	admin := seedUser(t, env, "u-root", "root", true)

	settings, err := env.settings.Get(ctx)
	require.NoError(t, err)
	settings.RequireAdminOnly = true
	_, err = env.settings.Update(ctx, settings)
	require.NoError(t, err)

	verdict, err := env.status.Resolve(ctx, statusReq(regular.ID, "sess-1"))
	require.NoError(t, err)
	require.Equal(t, domain.StatusNotRequired, verdict.Status)

	verdict, err = env.status.Resolve(ctx, statusReq(admin.ID, "sess-2"))
	require.NoError(t, err)
	require.Equal(t, domain.StatusGracePeriod, verdict.Status)
}

func TestResolveFirstContactOpensGracePeriod(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := seedUser(t, env, "u-carol", "carol", false)

	verdict, err := env.status.Resolve(ctx, statusReq(user.ID, "sess-1"))
	require.NoError(t, err)
	require.Equal(t, domain.StatusGracePeriod, verdict.Status)
	require.Equal(t, domain.ActionRemindSetup, verdict.Action)
	require.NotEmpty(t, verdict.Message)

	record, err := env.store.TwoFactor().GetRecord(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TwoFactorGracePeriod, record.Status)
	require.NotNil(t, record.GracePeriodStart)

	// The reminder only fires once per session.
	verdict, err = env.status.Resolve(ctx, statusReq(user.ID, "sess-1"))
	require.NoError(t, err)
	require.Equal(t, domain.StatusGracePeriod, verdict.Status)
	require.Equal(t, domain.ActionProceed, verdict.Action)

	// A different session sees it again.
	verdict, err = env.status.Resolve(ctx, statusReq(user.ID, "sess-2"))
	require.NoError(t, err)
	require.Equal(t, domain.ActionRemindSetup, verdict.Action)
}

func TestResolveEnabledDemandsVerification(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := seedUser(t, env, "u-dave", "dave", false)
	enableEmail2FA(t, env, user.ID)

	verdict, err := env.status.Resolve(ctx, statusReq(user.ID, "sess-1"))
	require.NoError(t, err)
	require.Equal(t, domain.StatusSetupComplete, verdict.Status)
	require.Equal(t, domain.ActionVerify, verdict.Action)
}

func TestResolveVerifiedSessionProceeds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := seedUser(t, env, "u-erin", "erin", false)
	enableEmail2FA(t, env, user.ID)

	req := statusReq(user.ID, "sess-1")
	require.NoError(t, env.delivery.SendCode(ctx, user.ID, domain.MethodEmail))
	code, _ := env.sender.last()

	_, err := env.verify.Verify(ctx, VerifyRequest{
		UserID:    user.ID,
		SessionID: req.SessionID,
		Code:      code,
		UserAgent: req.UserAgent,
		IPAddress: req.IPAddress,
	})
	require.NoError(t, err)

	verdict, err := env.status.Resolve(ctx, req)
	require.NoError(t, err)
	require.Equal(t, domain.StatusVerified, verdict.Status)
	require.Equal(t, domain.ActionProceed, verdict.Action)
}

func TestResolveTrustedDeviceSkipsVerification(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := seedUser(t, env, "u-frank", "frank", false)
	enableEmail2FA(t, env, user.ID)

	token, _, err := env.devices.Trust(ctx, user.ID, "laptop", "test-agent", "203.0.113.9")
	require.NoError(t, err)

	req := statusReq(user.ID, "sess-1")
	req.DeviceToken = token

	verdict, err := env.status.Resolve(ctx, req)
	require.NoError(t, err)
	require.Equal(t, domain.StatusTrustedDevice, verdict.Status)
	require.Equal(t, domain.ActionProceed, verdict.Action)

	// The trusted-device hit vouched for the session too.
	req.DeviceToken = ""
	verdict, err = env.status.Resolve(ctx, req)
	require.NoError(t, err)
	require.Equal(t, domain.StatusVerified, verdict.Status)
}

func TestResolveBogusDeviceTokenNeverTrusted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := seedUser(t, env, "u-gina", "gina", false)
	enableEmail2FA(t, env, user.ID)

	// Stored rows exist, but a malformed token must never match them.
	_, _, err := env.devices.Trust(ctx, user.ID, "laptop", "test-agent", "203.0.113.9")
	require.NoError(t, err)

	for _, token := range []string{
		"",
		"short",
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", // too few distinct characters
		"bad token with spaces padding padding padding",
	} {
		req := statusReq(user.ID, "sess-x")
		req.DeviceToken = token

		verdict, err := env.status.Resolve(ctx, req)
		require.NoError(t, err)
		require.Equal(t, domain.StatusSetupComplete, verdict.Status, "token %q", token)
		require.Equal(t, domain.ActionVerify, verdict.Action)
	}
}
