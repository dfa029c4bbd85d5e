package stepup_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shiftwise/stepup/pkg/stepupsdk"
)

func TestRememberDeviceFlow(t *testing.T) {
	baseURL, cleanup := setupStepupContainer(t)
	defer cleanup()

	client := stepupsdk.NewClient(baseURL)
	ctx := t.Context()

	admin := mintAdminToken(t, "admin-7", "sess-admin-7", "admin")
	seedUser(t, client, admin, "user-device", "daria", "daria@example.com", false)

	bearer := mintToken(t, "user-device", "sess-device-1", "daria")
	secret, _ := enrollTOTP(t, client, bearer)

	result, deviceToken, err := client.VerifyAndTrust(ctx, bearer, stepupsdk.VerifyRequest{
		Code:       totpCode(t, secret),
		DeviceName: "Work laptop",
	})
	require.NoError(t, err)
	require.True(t, result.Verified)
	require.NotEmpty(t, deviceToken, "remember_device should yield a trusted-device token")

	devices, err := client.ListDevices(ctx, bearer)
	require.NoError(t, err)
	require.Len(t, devices.Devices, 1)
	require.Equal(t, "Work laptop", devices.Devices[0].Name)

	// A fresh session on the trusted device skips verification
	second := mintToken(t, "user-device", "sess-device-2", "daria")
	verdict, err := client.Status(ctx, second, deviceToken)
	require.NoError(t, err)
	require.Equal(t, "trusted_device", verdict.Status)
	require.Equal(t, "proceed", verdict.Action)

	// The device vouched once; the session itself is now verified
	verdict, err = client.Status(ctx, second, "")
	require.NoError(t, err)
	require.Equal(t, "verified", verdict.Status)

	require.NoError(t, client.RevokeDevice(ctx, bearer, devices.Devices[0].ID))

	// Revoked token stops vouching for new sessions
	third := mintToken(t, "user-device", "sess-device-3", "daria")
	verdict, err = client.Status(ctx, third, deviceToken)
	require.NoError(t, err)
	require.Equal(t, "setup_complete", verdict.Status)
	require.Equal(t, "verify", verdict.Action)
}
