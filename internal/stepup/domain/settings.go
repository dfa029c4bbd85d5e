package domain

import "time"

// Settings is the single global 2FA policy row, admin-mutated and read on
// every status resolution.
type Settings struct {
	SystemEnabled    bool // master switch for step-up verification
	RequireAdminOnly bool // when set, only admins are forced through 2FA

	TOTPEnabled  bool
	SMSEnabled   bool
	EmailEnabled bool

	RememberDeviceEnabled bool

	GracePeriodDays    int
	RememberDeviceDays int
	BackupCodesCount   int

	UpdatedAt time.Time
}

// DefaultSettings are applied by the initial migration and used as the
// fallback when the settings row cannot be read.
func DefaultSettings() Settings {
	return Settings{
		SystemEnabled:         true,
		RequireAdminOnly:      false,
		TOTPEnabled:           true,
		SMSEnabled:            true,
		EmailEnabled:          true,
		RememberDeviceEnabled: true,
		GracePeriodDays:       7,
		RememberDeviceDays:    30,
		BackupCodesCount:      10,
	}
}

// MethodEnabled reports whether the policy allows m as a primary method.
func (s Settings) MethodEnabled(m Method) bool {
	switch m {
	case MethodTOTP:
		return s.TOTPEnabled
	case MethodSMS:
		return s.SMSEnabled
	case MethodEmail:
		return s.EmailEnabled
	}
	return false
}

// RequiredFor reports whether step-up verification applies to the user under
// this policy.
func (s Settings) RequiredFor(u User) bool {
	if !s.SystemEnabled {
		return false
	}
	if s.RequireAdminOnly {
		return u.IsAdmin
	}
	return true
}
