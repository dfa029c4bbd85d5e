package cryptox

import (
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func testPepper(t *testing.T) {
	t.Helper()
	SetPepperPath(filepath.Join(t.TempDir(), "pepper"))
	pepper = "" // force reload from the temp path
	GetPepper()
}

func TestGenerateCodeProperties(t *testing.T) {
	digitsOnly := regexp.MustCompile(`^[0-9]{6}$`)

	for range 200 {
		code, err := GenerateCode()
		require.NoError(t, err)

		require.Regexp(t, digitsOnly, code)
		require.NotEqual(t, byte('0'), code[0], "code must not start with 0")
		require.GreaterOrEqual(t, distinctChars(code), 3, "code %q below entropy floor", code)
	}
}

func TestHashCodeDeterministic(t *testing.T) {
	testPepper(t)

	h1 := HashCode("482913", "user-a")
	h2 := HashCode("482913", "user-a")
	require.Equal(t, h1, h2)
}

func TestHashCodeVariesWithInputs(t *testing.T) {
	testPepper(t)

	base := HashCode("482913", "user-a")
	require.NotEqual(t, base, HashCode("482914", "user-a"), "different code must change hash")
	require.NotEqual(t, base, HashCode("482913", "user-b"), "different subject must change hash")
}

func TestConstantTimeEquals(t *testing.T) {
	require.True(t, ConstantTimeEquals("abc", "abc"))
	require.False(t, ConstantTimeEquals("abc", "abd"))
	require.False(t, ConstantTimeEquals("abc", "abcd"))
}

func TestSanitizeDigits(t *testing.T) {
	require.Equal(t, "123456", SanitizeDigits(" 123 456 "))
	require.Equal(t, "123456", SanitizeDigits("123-456"))
	require.Equal(t, "", SanitizeDigits("abc"))
}

func TestGenerateBackupCodeFormat(t *testing.T) {
	format := regexp.MustCompile(`^[23456789A-HJKMNP-Z]{4}-[23456789A-HJKMNP-Z]{4}$`)

	seen := make(map[string]struct{})
	for range 50 {
		code, err := GenerateBackupCode()
		require.NoError(t, err)
		require.Regexp(t, format, code)
		seen[code] = struct{}{}
	}
	// 31^8 combinations; 50 draws colliding would indicate a broken RNG.
	require.Len(t, seen, 50)
}
