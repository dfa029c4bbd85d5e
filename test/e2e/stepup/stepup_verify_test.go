package stepup_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shiftwise/stepup/pkg/stepupsdk"
)

func TestTOTPVerifyFlow(t *testing.T) {
	baseURL, cleanup := setupStepupContainer(t)
	defer cleanup()

	client := stepupsdk.NewClient(baseURL)
	ctx := t.Context()

	admin := mintAdminToken(t, "admin-3", "sess-admin-3", "admin")
	seedUser(t, client, admin, "user-totp", "toby", "toby@example.com", false)

	bearer := mintToken(t, "user-totp", "sess-totp-1", "toby")

	secret, backupCodes := enrollTOTP(t, client, bearer)
	require.Len(t, backupCodes, 10)

	// Enrolled but this session hasn't verified yet
	verdict, err := client.Status(ctx, bearer, "")
	require.NoError(t, err)
	require.Equal(t, "setup_complete", verdict.Status)
	require.Equal(t, "verify", verdict.Action)

	result, err := client.Verify(ctx, bearer, stepupsdk.VerifyRequest{Code: totpCode(t, secret)})
	require.NoError(t, err)
	require.True(t, result.Verified)
	require.Equal(t, "totp", result.Method)
	require.False(t, result.UsedBackupCode)
	require.Equal(t, 10, result.BackupCodesRemaining)

	verdict, err = client.Status(ctx, bearer, "")
	require.NoError(t, err)
	require.Equal(t, "verified", verdict.Status)
	require.Equal(t, "proceed", verdict.Action)

	// Logout clears the session's verification
	require.NoError(t, client.ClearSession(ctx, bearer))

	verdict, err = client.Status(ctx, bearer, "")
	require.NoError(t, err)
	require.Equal(t, "setup_complete", verdict.Status)
	require.Equal(t, "verify", verdict.Action)
}

func TestVerifyRejectsWrongCode(t *testing.T) {
	baseURL, cleanup := setupStepupContainer(t)
	defer cleanup()

	client := stepupsdk.NewClient(baseURL)
	ctx := t.Context()

	admin := mintAdminToken(t, "admin-4", "sess-admin-4", "admin")
	seedUser(t, client, admin, "user-wrong", "wanda", "wanda@example.com", false)

	bearer := mintToken(t, "user-wrong", "sess-wrong-1", "wanda")
	secret, _ := enrollTOTP(t, client, bearer)

	_, err := client.Verify(ctx, bearer, stepupsdk.VerifyRequest{Code: wrongCode(t, secret)})
	requireAPIError(t, err, http.StatusBadRequest, "wrong code should be rejected")

	verdict, err := client.Status(ctx, bearer, "")
	require.NoError(t, err)
	require.Equal(t, "setup_complete", verdict.Status)
}

func TestBackupCodeSingleUse(t *testing.T) {
	baseURL, cleanup := setupStepupContainer(t)
	defer cleanup()

	client := stepupsdk.NewClient(baseURL)
	ctx := t.Context()

	admin := mintAdminToken(t, "admin-5", "sess-admin-5", "admin")
	seedUser(t, client, admin, "user-backup", "becka", "becka@example.com", false)

	bearer := mintToken(t, "user-backup", "sess-backup-1", "becka")
	_, backupCodes := enrollTOTP(t, client, bearer)

	result, err := client.Verify(ctx, bearer, stepupsdk.VerifyRequest{Code: backupCodes[0]})
	require.NoError(t, err)
	require.True(t, result.UsedBackupCode)
	require.Equal(t, 9, result.BackupCodesRemaining)

	require.NoError(t, client.ClearSession(ctx, bearer))

	// A spent code never works again
	_, err = client.Verify(ctx, bearer, stepupsdk.VerifyRequest{Code: backupCodes[0]})
	requireAPIError(t, err, http.StatusBadRequest, "spent backup code should be rejected")

	// The rest of the set is unaffected
	result, err = client.Verify(ctx, bearer, stepupsdk.VerifyRequest{Code: backupCodes[1]})
	require.NoError(t, err)
	require.True(t, result.UsedBackupCode)
	require.Equal(t, 8, result.BackupCodesRemaining)
}

func TestRegenerateInvalidatesOldBackupCodes(t *testing.T) {
	baseURL, cleanup := setupStepupContainer(t)
	defer cleanup()

	client := stepupsdk.NewClient(baseURL)
	ctx := t.Context()

	admin := mintAdminToken(t, "admin-6", "sess-admin-6", "admin")
	seedUser(t, client, admin, "user-regen", "rita", "rita@example.com", false)

	bearer := mintToken(t, "user-regen", "sess-regen-1", "rita")
	_, oldCodes := enrollTOTP(t, client, bearer)

	fresh, err := client.RegenerateBackupCodes(ctx, bearer)
	require.NoError(t, err)
	require.Len(t, fresh.BackupCodes, 10)
	require.NotEqual(t, oldCodes, fresh.BackupCodes)

	_, err = client.Verify(ctx, bearer, stepupsdk.VerifyRequest{Code: oldCodes[0]})
	requireAPIError(t, err, http.StatusBadRequest, "old backup code should be dead after regeneration")

	result, err := client.Verify(ctx, bearer, stepupsdk.VerifyRequest{Code: fresh.BackupCodes[0]})
	require.NoError(t, err)
	require.True(t, result.UsedBackupCode)
}
