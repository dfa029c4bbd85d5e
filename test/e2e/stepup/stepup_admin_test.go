package stepup_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shiftwise/stepup/pkg/stepupsdk"
)

func TestSettingsRoundTrip(t *testing.T) {
	baseURL, cleanup := setupStepupContainer(t)
	defer cleanup()

	client := stepupsdk.NewClient(baseURL)
	ctx := t.Context()

	admin := mintAdminToken(t, "admin-9", "sess-admin-9", "admin")

	settings, err := client.GetSettings(ctx, admin)
	require.NoError(t, err)
	require.True(t, settings.SystemEnabled)
	require.Equal(t, 7, settings.GracePeriodDays)
	require.Equal(t, 30, settings.RememberDeviceDays)
	require.Equal(t, 10, settings.BackupCodesCount)

	settings.GracePeriodDays = 14
	settings.SMSEnabled = false
	updated, err := client.UpdateSettings(ctx, admin, settings)
	require.NoError(t, err)
	require.Equal(t, 14, updated.GracePeriodDays)
	require.False(t, updated.SMSEnabled)

	again, err := client.GetSettings(ctx, admin)
	require.NoError(t, err)
	require.Equal(t, 14, again.GracePeriodDays)
}

func TestSettingsValidation(t *testing.T) {
	baseURL, cleanup := setupStepupContainer(t)
	defer cleanup()

	client := stepupsdk.NewClient(baseURL)
	ctx := t.Context()

	admin := mintAdminToken(t, "admin-10", "sess-admin-10", "admin")

	settings, err := client.GetSettings(ctx, admin)
	require.NoError(t, err)

	// The system can't be on with every method off
	settings.TOTPEnabled = false
	settings.SMSEnabled = false
	settings.EmailEnabled = false
	_, err = client.UpdateSettings(ctx, admin, settings)
	requireAPIError(t, err, http.StatusBadRequest, "all methods disabled should be rejected")
}

func TestAdminScopeRequired(t *testing.T) {
	baseURL, cleanup := setupStepupContainer(t)
	defer cleanup()

	client := stepupsdk.NewClient(baseURL)
	ctx := t.Context()

	plain := mintToken(t, "user-noscope", "sess-noscope-1", "norman")

	_, err := client.GetSettings(ctx, plain)
	requireAPIError(t, err, http.StatusForbidden, "settings read needs admin scope")

	_, err = client.UpsertUser(ctx, plain, "someone", stepupsdk.UpsertUserRequest{Username: "someone"})
	requireAPIError(t, err, http.StatusForbidden, "user upsert needs admin scope")

	// And no token at all is unauthorized
	_, err = client.GetSettings(ctx, "")
	requireAPIError(t, err, http.StatusUnauthorized, "missing token should be unauthorized")
}

func TestResetUser2FA(t *testing.T) {
	baseURL, cleanup := setupStepupContainer(t)
	defer cleanup()

	client := stepupsdk.NewClient(baseURL)
	ctx := t.Context()

	admin := mintAdminToken(t, "admin-11", "sess-admin-11", "admin")
	seedUser(t, client, admin, "user-reset", "rusty", "rusty@example.com", false)

	bearer := mintToken(t, "user-reset", "sess-reset-1", "rusty")
	enrollTOTP(t, client, bearer)

	require.NoError(t, client.ResetUser2FA(ctx, admin, "user-reset"))

	// Lost authenticator: the user starts setup over with no new grace window
	fresh := mintToken(t, "user-reset", "sess-reset-2", "rusty")
	verdict, err := client.Status(ctx, fresh, "")
	require.NoError(t, err)
	require.Equal(t, "setup_required", verdict.Status)
	require.Equal(t, "setup", verdict.Action)
}

func TestDeleteUserCascades(t *testing.T) {
	baseURL, cleanup := setupStepupContainer(t)
	defer cleanup()

	client := stepupsdk.NewClient(baseURL)
	ctx := t.Context()

	admin := mintAdminToken(t, "admin-12", "sess-admin-12", "admin")
	seedUser(t, client, admin, "user-gone", "gus", "gus@example.com", false)

	bearer := mintToken(t, "user-gone", "sess-gone-1", "gus")
	enrollTOTP(t, client, bearer)

	require.NoError(t, client.DeleteUser(ctx, admin, "user-gone"))

	verdict, err := client.Status(ctx, bearer, "")
	require.NoError(t, err)
	require.Equal(t, "error", verdict.Status)
	require.Equal(t, "login", verdict.Action)
}
