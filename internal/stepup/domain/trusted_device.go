package domain

import "time"

// TrustedDevice lets a recognized client skip step-up verification until
// ExpiresAt. The opaque token lives only in the client cookie; the row keeps
// its fingerprint.
type TrustedDevice struct {
	ID        string // ULID
	UserID    string
	TokenHash string // sha256 fingerprint of the opaque token, unique

	Name      string // optional user-assigned label
	UserAgent string
	IPAddress string

	CreatedAt  time.Time
	LastUsedAt time.Time
	ExpiresAt  time.Time // fixed at creation; use never extends it
}

// Expired reports whether the device can no longer vouch for the user.
func (d TrustedDevice) Expired(now time.Time) bool {
	return !now.Before(d.ExpiresAt)
}
