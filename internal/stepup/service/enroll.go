package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/shiftwise/stepup/internal/stepup/domain"
	"github.com/shiftwise/stepup/internal/stepup/store"
	"github.com/shiftwise/stepup/pkg/cryptox"
	"github.com/shiftwise/stepup/pkg/slogx"
)

var (
	ErrAlreadyEnabled  = errors.New("two-factor already enabled")
	ErrSetupNotPending = errors.New("no setup in progress")
	ErrNotEnabled      = errors.New("two-factor not enabled")
)

// TOTPEnrollment is handed back from EnrollTOTP so the client can render a
// QR code. The secret is shown exactly once.
type TOTPEnrollment struct {
	Secret  string `json:"secret"`
	URL     string `json:"url"`
	Issuer  string `json:"issuer"`
	Account string `json:"account"`
}

// EnrollService walks users through setting up a verification method:
// TOTP enrollment and activation, sms/email delivery setup, and backup code
// issuance.
type EnrollService struct {
	Store    store.Store
	Delivery *DeliveryService
	Limiter  *RateLimiter
	Issuer   string // TOTP issuer label, e.g. "ShiftWise"
}

// EnrollTOTP generates a TOTP secret for the user and stores it sealed.
// The method stays pending until ActivateTOTP proves the authenticator works.
func (s *EnrollService) EnrollTOTP(ctx context.Context, userID string) (TOTPEnrollment, error) {
	if err := s.Limiter.CheckAndRecord(ctx, userID, ActionSetup); err != nil {
		return TOTPEnrollment{}, err
	}

	settings, err := s.Store.Settings().Get(ctx)
	if err != nil {
		return TOTPEnrollment{}, fmt.Errorf("failed to load settings: %w", err)
	}
	if !settings.MethodEnabled(domain.MethodTOTP) {
		return TOTPEnrollment{}, ErrMethodDisabled
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return TOTPEnrollment{}, fmt.Errorf("failed to load user: %w", err)
	}

	record, err := s.getOrCreateRecord(ctx, userID)
	if err != nil {
		return TOTPEnrollment{}, err
	}
	if record.Status == domain.TwoFactorEnabled {
		return TOTPEnrollment{}, ErrAlreadyEnabled
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.Issuer,
		AccountName: user.Username,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return TOTPEnrollment{}, fmt.Errorf("failed to generate TOTP key: %w", err)
	}

	sealed, err := cryptox.EncryptSecret([]byte(key.Secret()))
	if err != nil {
		return TOTPEnrollment{}, fmt.Errorf("failed to seal TOTP secret: %w", err)
	}

	record.Status = domain.TwoFactorPendingSetup
	record.PrimaryMethod = domain.MethodTOTP
	record.SecretEnc = sealed
	if err := s.Store.TwoFactor().UpdateRecord(ctx, record); err != nil {
		return TOTPEnrollment{}, fmt.Errorf("failed to store enrollment: %w", err)
	}

	return TOTPEnrollment{
		Secret:  key.Secret(),
		URL:     key.URL(),
		Issuer:  s.Issuer,
		Account: user.Username,
	}, nil
}

// ActivateTOTP proves the user's authenticator produces valid codes and
// switches the record to enabled, issuing backup codes in the same
// transaction.
func (s *EnrollService) ActivateTOTP(ctx context.Context, userID, code string) ([]string, error) {
	if err := s.Limiter.CheckAndRecord(ctx, userID, ActionSetup); err != nil {
		return nil, err
	}

	record, err := s.Store.TwoFactor().GetRecord(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrSetupNotPending
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load 2fa record: %w", err)
	}
	if record.Status == domain.TwoFactorEnabled {
		return nil, ErrAlreadyEnabled
	}
	if record.PrimaryMethod != domain.MethodTOTP || record.SecretEnc == nil {
		return nil, ErrSetupNotPending
	}

	secret, err := cryptox.DecryptSecret(record.SecretEnc)
	if errors.Is(err, cryptox.ErrDecryptFailed) {
		// The pending secret can no longer be opened, so this enrollment is
		// dead. The user restarts setup and gets a fresh secret.
		slogx.FromContext(ctx).Warn("pending TOTP secret unreadable, setup must restart",
			slog.String("user_id", userID))
		return nil, ErrSetupNotPending
	}
	if err != nil {
		return nil, fmt.Errorf("failed to unseal TOTP secret: %w", err)
	}
	if !totp.Validate(cryptox.SanitizeDigits(code), string(secret)) {
		return nil, ErrInvalidCode
	}

	return s.enable(ctx, record)
}

// SetupDelivery starts sms or email setup: records the method (and phone,
// for sms) and sends a confirmation code to prove the destination works.
func (s *EnrollService) SetupDelivery(ctx context.Context, userID string, method domain.Method, phone string) error {
	if method != domain.MethodSMS && method != domain.MethodEmail {
		return ErrInvalidMethod
	}
	if err := s.Limiter.CheckAndRecord(ctx, userID, ActionSetup); err != nil {
		return err
	}

	settings, err := s.Store.Settings().Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if !settings.MethodEnabled(method) {
		return ErrMethodDisabled
	}

	record, err := s.getOrCreateRecord(ctx, userID)
	if err != nil {
		return err
	}
	if record.Status == domain.TwoFactorEnabled {
		return ErrAlreadyEnabled
	}

	record.Status = domain.TwoFactorPendingSetup
	record.PrimaryMethod = method
	record.SecretEnc = nil
	if method == domain.MethodSMS {
		phone = strings.TrimSpace(phone)
		if phone == "" {
			return ErrNoDestination
		}
		record.PhoneNumber = &phone
	}
	if err := s.Store.TwoFactor().UpdateRecord(ctx, record); err != nil {
		return fmt.Errorf("failed to store setup: %w", err)
	}

	return s.Delivery.SendCode(ctx, userID, method)
}

// ActivateDelivery redeems the confirmation code from SetupDelivery and
// switches the record to enabled, issuing backup codes.
func (s *EnrollService) ActivateDelivery(ctx context.Context, userID, code string) ([]string, error) {
	if err := s.Limiter.CheckAndRecord(ctx, userID, ActionSetup); err != nil {
		return nil, err
	}

	record, err := s.Store.TwoFactor().GetRecord(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrSetupNotPending
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load 2fa record: %w", err)
	}
	if record.Status == domain.TwoFactorEnabled {
		return nil, ErrAlreadyEnabled
	}
	if record.PrimaryMethod != domain.MethodSMS && record.PrimaryMethod != domain.MethodEmail {
		return nil, ErrSetupNotPending
	}

	if _, err := s.Delivery.CheckCode(ctx, userID, code); err != nil {
		return nil, err
	}

	return s.enable(ctx, record)
}

// RegenerateBackupCodes replaces the user's backup codes with a fresh batch
// and returns the plaintexts, shown exactly once.
func (s *EnrollService) RegenerateBackupCodes(ctx context.Context, userID string) ([]string, error) {
	if err := s.Limiter.CheckAndRecord(ctx, userID, ActionSetup); err != nil {
		return nil, err
	}

	record, err := s.Store.TwoFactor().GetRecord(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load 2fa record: %w", err)
	}
	if record.Status != domain.TwoFactorEnabled {
		return nil, ErrNotEnabled
	}

	settings, err := s.Store.Settings().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	var codes []string
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.BackupCodes().DeleteAllBackupCodes(ctx, userID); err != nil {
			return fmt.Errorf("failed to clear backup codes: %w", err)
		}
		codes, err = issueBackupCodes(ctx, tx, userID, settings.BackupCodesCount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return codes, nil
}

// Disable resets the user's two-factor state: record back to disabled,
// backup codes and trusted devices gone.
func (s *EnrollService) Disable(ctx context.Context, userID string) error {
	record, err := s.Store.TwoFactor().GetRecord(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load 2fa record: %w", err)
	}

	record.Status = domain.TwoFactorDisabled
	record.PrimaryMethod = ""
	record.SecretEnc = nil
	record.PhoneNumber = nil
	record.GracePeriodStart = nil
	record.VerificationAttempts = 0
	record.LockedUntil = nil

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.TwoFactor().UpdateRecord(ctx, record); err != nil {
			return fmt.Errorf("failed to update 2fa record: %w", err)
		}
		if err := tx.BackupCodes().DeleteAllBackupCodes(ctx, userID); err != nil {
			return fmt.Errorf("failed to clear backup codes: %w", err)
		}
		devices, err := tx.TrustedDevices().ListDevicesByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to list trusted devices: %w", err)
		}
		for _, d := range devices {
			if err := tx.TrustedDevices().DeleteDevice(ctx, userID, d.ID); err != nil {
				return fmt.Errorf("failed to remove trusted device: %w", err)
			}
		}
		if err := tx.PendingCodes().DeletePendingCode(ctx, userID); err != nil {
			return fmt.Errorf("failed to clear pending code: %w", err)
		}
		return nil
	})
}

// enable flips a pending record to enabled and issues backup codes, all in
// one transaction.
func (s *EnrollService) enable(ctx context.Context, record domain.TwoFactorRecord) ([]string, error) {
	settings, err := s.Store.Settings().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	now := time.Now().UTC()
	record.Status = domain.TwoFactorEnabled
	record.GracePeriodStart = nil
	record.LastVerifiedAt = &now
	record.VerificationAttempts = 0
	record.LockedUntil = nil

	var codes []string
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.TwoFactor().UpdateRecord(ctx, record); err != nil {
			return fmt.Errorf("failed to enable 2fa: %w", err)
		}
		if err := tx.BackupCodes().DeleteAllBackupCodes(ctx, record.UserID); err != nil {
			return fmt.Errorf("failed to clear backup codes: %w", err)
		}
		codes, err = issueBackupCodes(ctx, tx, record.UserID, settings.BackupCodesCount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return codes, nil
}

// getOrCreateRecord returns the user's 2fa record, creating a disabled one
// on first touch.
func (s *EnrollService) getOrCreateRecord(ctx context.Context, userID string) (domain.TwoFactorRecord, error) {
	record, err := s.Store.TwoFactor().GetRecord(ctx, userID)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.TwoFactorRecord{}, fmt.Errorf("failed to load 2fa record: %w", err)
	}

	now := time.Now().UTC()
	record = domain.TwoFactorRecord{
		UserID:    userID,
		Status:    domain.TwoFactorDisabled,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Store.TwoFactor().CreateRecord(ctx, record); err != nil {
		return domain.TwoFactorRecord{}, fmt.Errorf("failed to create 2fa record: %w", err)
	}
	return record, nil
}

// issueBackupCodes mints count backup codes inside tx and returns the
// plaintexts.
func issueBackupCodes(ctx context.Context, tx store.Tx, userID string, count int) ([]string, error) {
	codes := make([]string, 0, count)
	for range count {
		code, err := cryptox.GenerateBackupCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate backup code: %w", err)
		}
		hash := cryptox.HashCode(normalizeBackupCode(code), userID)
		if err := tx.BackupCodes().CreateBackupCode(ctx, userID, hash); err != nil {
			return nil, fmt.Errorf("failed to store backup code: %w", err)
		}
		codes = append(codes, code)
	}
	return codes, nil
}

// normalizeBackupCode strips separators and case so user-typed codes hash
// consistently.
func normalizeBackupCode(code string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(code) {
		if (r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
