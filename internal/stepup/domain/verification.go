package domain

import "time"

// VerificationSession tracks step-up state for one platform session. Stored
// in the shared database, keyed by the platform session ID, so verification
// holds across service instances.
type VerificationSession struct {
	SessionID   string
	UserID      string
	Fingerprint string // derived from user agent + IP, never raw values

	// VerifiedAt is when the session last passed step-up verification.
	// Nil for rows that only carry the grace-period reminder flag.
	VerifiedAt *time.Time

	// ReminderShownAt records that the grace-period setup reminder was
	// already surfaced for this session.
	ReminderShownAt *time.Time
}

// Verified reports whether the session passed step-up within validity of now.
func (s VerificationSession) Verified(now time.Time, validity time.Duration) bool {
	return s.VerifiedAt != nil && now.Sub(*s.VerifiedAt) < validity
}

// PendingCode is a delivered verification code awaiting submission. One per
// user; issuing a new code replaces any outstanding one.
type PendingCode struct {
	UserID    string
	CodeHash  string // slow salted hash, never the plaintext
	Method    Method
	ExpiresAt time.Time
}

// Expired reports whether the code can no longer be redeemed.
func (p PendingCode) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}
