package domain

import "time"

// TwoFactorStatus is the lifecycle state of a user's 2FA record.
type TwoFactorStatus string

const (
	TwoFactorDisabled     TwoFactorStatus = "disabled"
	TwoFactorPendingSetup TwoFactorStatus = "pending_setup"
	TwoFactorEnabled      TwoFactorStatus = "enabled"
	TwoFactorGracePeriod  TwoFactorStatus = "grace_period"
)

// Method is a primary verification method.
type Method string

const (
	MethodTOTP  Method = "totp"
	MethodSMS   Method = "sms"
	MethodEmail Method = "email"
)

// ValidMethod reports whether m names a known method.
func ValidMethod(m Method) bool {
	switch m {
	case MethodTOTP, MethodSMS, MethodEmail:
		return true
	}
	return false
}

// TwoFactorRecord holds a user's persisted 2FA state, one row per user.
// Invariant: Enabled implies PrimaryMethod is set and the method-specific
// data (encrypted TOTP secret, or a delivery destination) exists.
type TwoFactorRecord struct {
	UserID        string
	Status        TwoFactorStatus
	PrimaryMethod Method  // empty until a method is chosen
	SecretEnc     []byte  // AES-GCM sealed TOTP secret, nil for delivery methods
	PhoneNumber   *string // destination for the sms method

	GracePeriodStart *time.Time
	LastVerifiedAt   *time.Time

	// Lockout bookkeeping: counts failed primary/backup checks, soft-locks
	// at the threshold. Reset to zero on success.
	VerificationAttempts int
	LockedUntil          *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// InGracePeriod reports whether the record's onboarding grace window is
// still open at now for the given policy length.
func (r TwoFactorRecord) InGracePeriod(now time.Time, graceDays int) bool {
	if r.Status != TwoFactorGracePeriod || r.GracePeriodStart == nil {
		return false
	}
	return now.Before(r.GracePeriodStart.Add(time.Duration(graceDays) * 24 * time.Hour))
}

// Locked reports whether the record is currently soft-locked.
func (r TwoFactorRecord) Locked(now time.Time) bool {
	return r.LockedUntil != nil && now.Before(*r.LockedUntil)
}
