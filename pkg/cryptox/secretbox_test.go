package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptSecretRoundTrip(t *testing.T) {
	secret := []byte("JBSWY3DPEHPK3PXP")

	sealed, err := EncryptSecret(secret)
	require.NoError(t, err)
	require.NotEqual(t, secret, sealed)

	opened, err := DecryptSecret(sealed)
	require.NoError(t, err)
	require.Equal(t, secret, opened)
}

func TestDecryptSecretRejectsTamperedCiphertext(t *testing.T) {
	sealed, err := EncryptSecret([]byte("JBSWY3DPEHPK3PXP"))
	require.NoError(t, err)

	sealed[len(sealed)-1] ^= 0xFF
	_, err = DecryptSecret(sealed)
	require.ErrorIs(t, err, ErrDecryptFailed)
}

func TestDecryptSecretRejectsShortInput(t *testing.T) {
	_, err := DecryptSecret([]byte("short"))
	require.ErrorIs(t, err, ErrDecryptFailed)
}

func TestClientFingerprint(t *testing.T) {
	a := ClientFingerprint("Mozilla/5.0", "203.0.113.7")
	require.Len(t, a, 16)

	require.Equal(t, a, ClientFingerprint("Mozilla/5.0", "203.0.113.7"))
	require.NotEqual(t, a, ClientFingerprint("Mozilla/5.0", "203.0.113.8"))
	require.NotEqual(t, a, ClientFingerprint("curl/8.0", "203.0.113.7"))
}

func TestGenerateTokenEncoding(t *testing.T) {
	tok, err := GenerateToken(TokenSize256)
	require.NoError(t, err)
	require.Len(t, tok, 43) // 32 bytes base64url, no padding

	_, err = GenerateToken(0)
	require.Error(t, err)
}

func TestFingerprintTokenDeterministic(t *testing.T) {
	require.Equal(t, FingerprintToken("abc"), FingerprintToken("abc"))
	require.NotEqual(t, FingerprintToken("abc"), FingerprintToken("abd"))
	require.Len(t, FingerprintToken("abc"), 43)
}
