package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Parameters for delivered verification codes.
const (
	CodeLength = 6

	// codeMinDistinctDigits rejects low-entropy codes like "111222".
	codeMinDistinctDigits = 3

	// hashIterations is the PBKDF2 cost for stored code hashes. Codes are
	// short-lived but six digits is a tiny keyspace, so the hash must be slow.
	hashIterations = 100_000
	hashKeyLength  = 32
)

const digits = "0123456789"

// GenerateCode produces a random 6-digit verification code. Candidates that
// start with '0' or carry fewer than three distinct digits are discarded and
// redrawn.
func GenerateCode() (string, error) {
	for {
		code, err := randomDigits(CodeLength)
		if err != nil {
			return "", err
		}
		if code[0] == '0' {
			continue
		}
		if distinctChars(code) < codeMinDistinctDigits {
			continue
		}
		return code, nil
	}
}

func randomDigits(n int) (string, error) {
	var b strings.Builder
	b.Grow(n)
	for range n {
		i, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", fmt.Errorf("failed to draw random digit: %w", err)
		}
		b.WriteByte(digits[i.Int64()])
	}
	return b.String(), nil
}

func distinctChars(s string) int {
	seen := make(map[rune]struct{}, len(s))
	for _, r := range s {
		seen[r] = struct{}{}
	}
	return len(seen)
}

// HashCode derives a slow salted hash of a verification code for storage.
// The salt binds the hash to the subject and the server-wide pepper, so a
// hash stolen for one user is useless for another. Deterministic for fixed
// inputs; returned hex-encoded.
func HashCode(code, subjectID string) string {
	salt := []byte(subjectID + GetPepper())
	key := pbkdf2.Key([]byte(code), salt, hashIterations, hashKeyLength, sha256.New)
	return hex.EncodeToString(key)
}

// ConstantTimeEquals compares two strings without leaking the mismatch
// position through timing.
func ConstantTimeEquals(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// SanitizeDigits strips every non-digit rune from s. Users paste codes with
// spaces and hyphens; only the digits matter.
func SanitizeDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
