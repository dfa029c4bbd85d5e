package stepup_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shiftwise/stepup/pkg/stepupsdk"
)

func TestStatusUnknownUser(t *testing.T) {
	baseURL, cleanup := setupStepupContainer(t)
	defer cleanup()

	client := stepupsdk.NewClient(baseURL)

	// Valid token, but the platform never pushed this user's projection
	bearer := mintToken(t, "ghost-user", "sess-ghost-1", "ghost")

	verdict, err := client.Status(t.Context(), bearer, "")
	require.NoError(t, err)
	require.Equal(t, "error", verdict.Status)
	require.Equal(t, "login", verdict.Action)
	require.NotEmpty(t, verdict.Message)
}

func TestStatusGraceReminderOncePerSession(t *testing.T) {
	baseURL, cleanup := setupStepupContainer(t)
	defer cleanup()

	client := stepupsdk.NewClient(baseURL)
	ctx := t.Context()

	admin := mintAdminToken(t, "admin-1", "sess-admin-1", "admin")
	seedUser(t, client, admin, "user-grace", "gracie", "gracie@example.com", false)

	bearer := mintToken(t, "user-grace", "sess-grace-1", "gracie")

	// First contact opens the grace window and shows the reminder once
	verdict, err := client.Status(ctx, bearer, "")
	require.NoError(t, err)
	require.Equal(t, "grace_period", verdict.Status)
	require.Equal(t, "remind_setup", verdict.Action)
	require.Contains(t, verdict.Message, "setup is required before")

	// Same session: no second reminder
	verdict, err = client.Status(ctx, bearer, "")
	require.NoError(t, err)
	require.Equal(t, "grace_period", verdict.Status)
	require.Equal(t, "proceed", verdict.Action)
	require.Empty(t, verdict.Message)

	// Fresh session: reminded again
	fresh := mintToken(t, "user-grace", "sess-grace-2", "gracie")
	verdict, err = client.Status(ctx, fresh, "")
	require.NoError(t, err)
	require.Equal(t, "remind_setup", verdict.Action)
}

func TestStatusAdminOnlyPolicy(t *testing.T) {
	baseURL, cleanup := setupStepupContainer(t)
	defer cleanup()

	client := stepupsdk.NewClient(baseURL)
	ctx := t.Context()

	admin := mintAdminToken(t, "admin-2", "sess-admin-2", "admin")
	seedUser(t, client, admin, "admin-2", "admin", "admin@example.com", true)
	seedUser(t, client, admin, "user-plain", "plain", "plain@example.com", false)

	settings, err := client.GetSettings(ctx, admin)
	require.NoError(t, err)
	settings.RequireAdminOnly = true
	_, err = client.UpdateSettings(ctx, admin, settings)
	require.NoError(t, err)

	// Regular users are out of scope under the admin-only policy
	plain := mintToken(t, "user-plain", "sess-plain-1", "plain")
	verdict, err := client.Status(ctx, plain, "")
	require.NoError(t, err)
	require.Equal(t, "not_required", verdict.Status)
	require.Equal(t, "proceed", verdict.Action)

	// Admins still go through onboarding
	verdict, err = client.Status(ctx, admin, "")
	require.NoError(t, err)
	require.Equal(t, "grace_period", verdict.Status)
	require.Equal(t, "remind_setup", verdict.Action)
}
