package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pquerna/otp/totp"

	"github.com/shiftwise/stepup/internal/stepup/domain"
	"github.com/shiftwise/stepup/internal/stepup/store"
	"github.com/shiftwise/stepup/pkg/cryptox"
	"github.com/shiftwise/stepup/pkg/slogx"
)

const (
	// lockoutThreshold failed checks soft-lock the record.
	lockoutThreshold = 5
	lockoutDuration  = 15 * time.Minute

	// backupCodeLength is the length of a backup code with separators
	// stripped ("XXXX-XXXX" normalizes to 8 characters).
	backupCodeLength = 8
)

var (
	ErrInvalidCode = errors.New("invalid verification code")
	ErrLocked      = errors.New("verification is temporarily locked")
)

// VerifyRequest is everything one verification attempt needs: the code, the
// session to vouch for, and the client context for fingerprinting and
// optional device trust.
type VerifyRequest struct {
	UserID    string
	SessionID string
	Code      string

	UserAgent string
	IPAddress string

	RememberDevice bool
	DeviceName     string
}

// VerifyResult reports a successful verification. DeviceToken is set only
// when the caller asked to remember the device and policy allowed it;
// DeviceExpiresAt matches the stored row so cookies can align with it.
type VerifyResult struct {
	Method               domain.Method
	UsedBackupCode       bool
	BackupCodesRemaining int
	DeviceToken          string
	DeviceExpiresAt      time.Time
}

// VerifyService checks submitted codes against the user's primary method and
// backup codes, tracks failures, and marks sessions verified on success.
type VerifyService struct {
	Store    store.Store
	Delivery *DeliveryService
	Sessions *SessionService
	Devices  *DeviceService
	Limiter  *RateLimiter
}

// Verify runs one verification attempt. Order: primary method first, backup
// codes second. Failures count toward the lockout; success resets it and
// marks the session verified.
func (s *VerifyService) Verify(ctx context.Context, req VerifyRequest) (VerifyResult, error) {
	record, err := s.Store.TwoFactor().GetRecord(ctx, req.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return VerifyResult{}, ErrNotEnabled
	}
	if err != nil {
		return VerifyResult{}, fmt.Errorf("failed to load 2fa record: %w", err)
	}
	if record.Status != domain.TwoFactorEnabled {
		return VerifyResult{}, ErrNotEnabled
	}

	// The lockout answer wins over the rate limiter so a locked user gets
	// a lockout message, not a rate-limit one, and burns no attempt.
	now := time.Now().UTC()
	if record.Locked(now) {
		return VerifyResult{}, ErrLocked
	}

	if err := s.Limiter.CheckAndRecord(ctx, req.UserID, ActionVerify); err != nil {
		return VerifyResult{}, err
	}

	result, ok, err := s.checkCode(ctx, record, req.Code)
	if err != nil {
		return VerifyResult{}, err
	}
	if !ok {
		return VerifyResult{}, s.recordFailure(ctx, record, now)
	}

	record.VerificationAttempts = 0
	record.LockedUntil = nil
	record.LastVerifiedAt = &now
	if err := s.Store.TwoFactor().UpdateRecord(ctx, record); err != nil {
		return VerifyResult{}, fmt.Errorf("failed to update 2fa record: %w", err)
	}

	fingerprint := cryptox.ClientFingerprint(req.UserAgent, req.IPAddress)
	if err := s.Sessions.MarkVerified(ctx, req.SessionID, req.UserID, fingerprint); err != nil {
		return VerifyResult{}, err
	}

	if req.RememberDevice {
		token, device, err := s.Devices.Trust(ctx, req.UserID, req.DeviceName, req.UserAgent, req.IPAddress)
		if err != nil && !errors.Is(err, ErrRememberDisabled) {
			return VerifyResult{}, err
		}
		result.DeviceToken = token
		result.DeviceExpiresAt = device.ExpiresAt
	}

	remaining, err := s.Store.BackupCodes().CountUnusedBackupCodes(ctx, req.UserID)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("failed to count backup codes: %w", err)
	}
	result.BackupCodesRemaining = remaining

	return result, nil
}

// checkCode tries the primary method, then backup codes.
func (s *VerifyService) checkCode(ctx context.Context, record domain.TwoFactorRecord, code string) (VerifyResult, bool, error) {
	switch record.PrimaryMethod {
	case domain.MethodTOTP:
		if record.SecretEnc == nil {
			break
		}
		secret, err := cryptox.DecryptSecret(record.SecretEnc)
		if errors.Is(err, cryptox.ErrDecryptFailed) {
			// An unreadable secret (key rotation, corruption) counts as no
			// secret at all. Backup codes still work below; the user has to
			// re-enroll to get TOTP back.
			slogx.FromContext(ctx).Warn("stored TOTP secret unreadable, treating as absent",
				slog.String("user_id", record.UserID))
			break
		}
		if err != nil {
			return VerifyResult{}, false, fmt.Errorf("failed to unseal TOTP secret: %w", err)
		}
		if totp.Validate(cryptox.SanitizeDigits(code), string(secret)) {
			return VerifyResult{Method: domain.MethodTOTP}, true, nil
		}

	case domain.MethodSMS, domain.MethodEmail:
		method, err := s.Delivery.CheckCode(ctx, record.UserID, code)
		if err == nil {
			return VerifyResult{Method: method}, true, nil
		}
		if errors.Is(err, ErrCodeExpired) {
			// Distinct from a wrong code, and not a strike against the
			// lockout counter.
			return VerifyResult{}, false, err
		}
		if !errors.Is(err, ErrInvalidCode) {
			return VerifyResult{}, false, err
		}
	}

	ok, err := s.redeemBackupCode(ctx, record.UserID, code)
	if err != nil {
		return VerifyResult{}, false, err
	}
	if ok {
		return VerifyResult{Method: record.PrimaryMethod, UsedBackupCode: true}, true, nil
	}
	return VerifyResult{}, false, nil
}

// redeemBackupCode consumes a backup code if the submission matches one.
func (s *VerifyService) redeemBackupCode(ctx context.Context, userID, code string) (bool, error) {
	normalized := normalizeBackupCode(code)
	if len(normalized) != backupCodeLength {
		return false, nil
	}

	hash := cryptox.HashCode(normalized, userID)
	usedAt, err := s.Store.BackupCodes().GetBackupCode(ctx, userID, hash)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up backup code: %w", err)
	}
	if usedAt != nil {
		return false, nil
	}

	err = s.Store.BackupCodes().MarkBackupCodeUsed(ctx, userID, hash, time.Now().UTC())
	if errors.Is(err, store.ErrNotFound) {
		// Lost a race with a concurrent redemption of the same code.
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to consume backup code: %w", err)
	}
	return true, nil
}

// recordFailure bumps the failure counter, locking the record at the
// threshold, and returns the error the caller should surface.
func (s *VerifyService) recordFailure(ctx context.Context, record domain.TwoFactorRecord, now time.Time) error {
	record.VerificationAttempts++
	out := error(ErrInvalidCode)
	if record.VerificationAttempts >= lockoutThreshold {
		lockedUntil := now.Add(lockoutDuration)
		record.LockedUntil = &lockedUntil
		record.VerificationAttempts = 0
		out = ErrLocked
	}

	if err := s.Store.TwoFactor().UpdateRecord(ctx, record); err != nil {
		return fmt.Errorf("failed to update 2fa record: %w", err)
	}
	return out
}
