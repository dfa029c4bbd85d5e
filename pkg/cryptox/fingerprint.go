package cryptox

import (
	"crypto/sha256"
	"encoding/hex"
)

// fingerprintLength truncates the hex digest; 16 hex chars (64 bits) is
// plenty to bind a verified session to its originating client.
const fingerprintLength = 16

// ClientFingerprint derives a short, non-reversible value from request
// metadata. The raw user agent and IP are never stored, only this digest.
func ClientFingerprint(userAgent, ip string) string {
	sum := sha256.Sum256([]byte(userAgent + ip))
	return hex.EncodeToString(sum[:])[:fingerprintLength]
}
