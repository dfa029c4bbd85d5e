package cryptox

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Backup codes use an unambiguous uppercase alphanumeric alphabet (no 0/O or
// 1/I/L) formatted as two 4-character groups, e.g. "7XK2-M9QF".
const backupAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

const backupGroupLen = 4

// GenerateBackupCode returns a single recovery code.
func GenerateBackupCode() (string, error) {
	group := func() (string, error) {
		buf := make([]byte, backupGroupLen)
		for i := range buf {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(backupAlphabet))))
			if err != nil {
				return "", fmt.Errorf("failed to draw backup code char: %w", err)
			}
			buf[i] = backupAlphabet[n.Int64()]
		}
		return string(buf), nil
	}

	a, err := group()
	if err != nil {
		return "", err
	}
	b, err := group()
	if err != nil {
		return "", err
	}

	return a + "-" + b, nil
}
