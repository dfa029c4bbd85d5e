package stepup_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/shiftwise/stepup/pkg/jwtx"
	"github.com/shiftwise/stepup/pkg/stepupsdk"
)

/*
 * Common constants and helper functions for step-up service end-to-end tests.
 * This includes container setup, token minting, and enrollment helpers.
 */

const (
	testImageName = "shiftwise-stepup-test:latest"

	testJWTSecret = "e2e-shared-secret-0123456789abcdef"
	testIssuer    = "shiftwise-platform"
)

// TestMain manages the test lifecycle, builds the Docker image once before
// all tests and cleans it up after all tests complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Step-Up Service Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Step-Up Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/stepup/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Ignore errors - image might not exist
}

// setupStepupContainer starts the service in a container and returns the base
// URL. Transport-tier rate limits are loosened so rapid test requests don't
// trip them; the per-user service-tier ceilings stay at production values, so
// tests use distinct user IDs to stay independent.
func setupStepupContainer(t *testing.T) (string, func()) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env: map[string]string{
			"STEPUP_JWT_SECRET":    testJWTSecret,
			"STEPUP_ISSUER":        testIssuer,
			"STEPUP_DATABASE_FILE": "/tmp/stepup.db",
			"STEPUP_PEPPER_FILE":   "/tmp/pepper",
			"ENV":                  "test",
			"LOG_LEVEL":            "info",
			"LOG_FORMAT":           "json",
			// Loosen transport-tier limits; tests make many rapid requests
			"RATELIMIT_STRICT_REQUESTS":   "1000",
			"RATELIMIT_STRICT_WINDOW_SEC": "60",
			"RATELIMIT_STRICT_BURST":      "1000",
			"RATELIMIT_MODERATE_REQUESTS": "1000",
			"RATELIMIT_MODERATE_BURST":    "1000",
			"RATELIMIT_LENIENT_REQUESTS":  "1000",
			"RATELIMIT_LENIENT_BURST":     "1000",
		},
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return baseURL, cleanup
}

// mintToken signs an access token the way the platform IdP would.
func mintToken(t *testing.T, userID, sessionID, username string, scopes ...string) string {
	t.Helper()

	claims := jwtx.NewAccessClaims(userID, sessionID, username, scopes, testIssuer, time.Hour, time.Now())
	token, err := jwtx.SignHS256([]byte(testJWTSecret), claims)
	require.NoError(t, err)
	return token
}

// mintAdminToken signs a token carrying the admin scope.
func mintAdminToken(t *testing.T, userID, sessionID, username string) string {
	t.Helper()
	return mintToken(t, userID, sessionID, username, "admin:2fa")
}

// seedUser pushes a user projection through the admin API.
func seedUser(t *testing.T, client *stepupsdk.Client, adminBearer, id, username, email string, isAdmin bool) {
	t.Helper()

	user, err := client.UpsertUser(t.Context(), adminBearer, id, stepupsdk.UpsertUserRequest{
		Username: username,
		Email:    email,
		IsAdmin:  isAdmin,
	})
	require.NoError(t, err)
	require.Equal(t, id, user.ID)
}

// enrollTOTP walks a user through authenticator enrollment and returns the
// shared secret plus the one-time backup codes.
func enrollTOTP(t *testing.T, client *stepupsdk.Client, bearer string) (string, []string) {
	t.Helper()
	ctx := t.Context()

	enrollment, err := client.EnrollTOTP(ctx, bearer)
	require.NoError(t, err)
	require.NotEmpty(t, enrollment.Secret)
	require.Contains(t, enrollment.URL, "otpauth://")

	code := totpCode(t, enrollment.Secret)
	codes, err := client.ActivateTOTP(ctx, bearer, code)
	require.NoError(t, err)
	require.NotEmpty(t, codes.BackupCodes)

	return enrollment.Secret, codes.BackupCodes
}

// totpCode computes the current authenticator code for a secret.
func totpCode(t *testing.T, secret string) string {
	t.Helper()

	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	return code
}

// wrongCode returns a six-digit code guaranteed to differ from the current
// TOTP code for the secret.
func wrongCode(t *testing.T, secret string) string {
	t.Helper()

	code := totpCode(t, secret)
	last := code[len(code)-1]
	flipped := byte('0' + (last-'0'+1)%10)
	return code[:len(code)-1] + string(flipped)
}

// requireAPIError asserts that err is a service APIError with the given
// HTTP status.
func requireAPIError(t *testing.T, err error, wantStatus int, context string) {
	t.Helper()

	require.Error(t, err, context)
	var apiErr *stepupsdk.APIError
	require.ErrorAs(t, err, &apiErr, context)
	require.Equal(t, wantStatus, apiErr.StatusCode, "%s: %v", context, err)
}
