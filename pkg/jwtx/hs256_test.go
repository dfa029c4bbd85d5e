package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHS256RoundTrip(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")
	claims := NewAccessClaims("user-1", "sess-1", "alice", []string{"admin:2fa"}, "shiftwise", time.Minute, time.Now())

	token, err := SignHS256(secret, claims)
	require.NoError(t, err)

	got, err := NewHS256Verifier(secret, "shiftwise").Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", got.Subject)
	require.Equal(t, "sess-1", got.SID)
	require.Equal(t, "alice", got.Username)
	require.Equal(t, []string{"admin:2fa"}, got.Scopes)
	require.NoError(t, got.ValidateExpiry())
}

func TestHS256RejectsWrongSecret(t *testing.T) {
	t.Parallel()

	claims := NewAccessClaims("user-1", "sess-1", "alice", nil, "shiftwise", time.Minute, time.Now())
	token, err := SignHS256([]byte("secret-a"), claims)
	require.NoError(t, err)

	_, err = NewHS256Verifier([]byte("secret-b"), "shiftwise").Verify(token)
	require.ErrorIs(t, err, ErrInvalidSig)
}

func TestHS256RejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")
	claims := NewAccessClaims("user-1", "sess-1", "alice", nil, "someone-else", time.Minute, time.Now())
	token, err := SignHS256(secret, claims)
	require.NoError(t, err)

	_, err = NewHS256Verifier(secret, "shiftwise").Verify(token)
	require.ErrorIs(t, err, ErrIssuer)
}

func TestHS256RejectsExpired(t *testing.T) {
	t.Parallel()

	secret := []byte("test-secret")
	claims := NewAccessClaims("user-1", "sess-1", "alice", nil, "shiftwise", time.Minute, time.Now().Add(-time.Hour))
	token, err := SignHS256(secret, claims)
	require.NoError(t, err)

	_, err = NewHS256Verifier(secret, "shiftwise").Verify(token)
	require.ErrorIs(t, err, ErrExpired)
}

func TestHS256RejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := NewHS256Verifier([]byte("s"), "").Verify("not.a.token")
	require.ErrorIs(t, err, ErrMalformed)
}
