package stepup_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shiftwise/stepup/pkg/stepupsdk"
)

func TestHealthProbes(t *testing.T) {
	baseURL, cleanup := setupStepupContainer(t)
	defer cleanup()

	client := stepupsdk.NewClient(baseURL)
	ctx := t.Context()

	live, err := client.Livez(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.NotEmpty(t, live.Version)

	ready, err := client.Readyz(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.NotNil(t, ready.Checks)
	require.Equal(t, "ok", ready.Checks.Database)
}
