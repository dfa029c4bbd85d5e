package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shiftwise/stepup/internal/stepup/domain"
	"github.com/shiftwise/stepup/internal/stepup/store"
	"github.com/shiftwise/stepup/internal/stepup/transport"
	"github.com/shiftwise/stepup/pkg/cryptox"
)

// codeValidity is how long a delivered code stays redeemable.
const codeValidity = 5 * time.Minute

var (
	ErrMethodDisabled   = errors.New("verification method is disabled by policy")
	ErrInvalidMethod    = errors.New("unknown verification method")
	ErrNoDestination    = errors.New("no delivery destination for this method")
	ErrNoDeliveryMethod = errors.New("no delivery method configured")
	ErrCodeExpired      = errors.New("verification code expired, request a new one")
)

// DeliveryService issues one-time codes over sms and email. Only the slow
// salted hash of a code is stored; the plaintext goes straight to the Sender
// and is gone.
type DeliveryService struct {
	Store   store.Store
	Sender  transport.Sender
	Limiter *RateLimiter
}

// SendPrimary delivers a code over the user's configured primary method.
func (s *DeliveryService) SendPrimary(ctx context.Context, userID string) (domain.Method, error) {
	record, err := s.Store.TwoFactor().GetRecord(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load 2fa record: %w", err)
	}
	if record.PrimaryMethod != domain.MethodSMS && record.PrimaryMethod != domain.MethodEmail {
		return "", ErrNoDeliveryMethod
	}
	return record.PrimaryMethod, s.SendCode(ctx, userID, record.PrimaryMethod)
}

// SendCode delivers a fresh code to the user over the given method,
// replacing any outstanding code. Counts against the code_request limit.
func (s *DeliveryService) SendCode(ctx context.Context, userID string, method domain.Method) error {
	if method != domain.MethodSMS && method != domain.MethodEmail {
		return ErrInvalidMethod
	}

	if err := s.Limiter.CheckAndRecord(ctx, userID, ActionCodeRequest); err != nil {
		return err
	}

	settings, err := s.Store.Settings().Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if !settings.MethodEnabled(method) {
		return ErrMethodDisabled
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}

	// A setup-specific phone number on the 2fa record wins over the
	// profile one.
	if record, err := s.Store.TwoFactor().GetRecord(ctx, userID); err == nil && record.PhoneNumber != nil {
		user.Phone = record.PhoneNumber
	}

	switch method {
	case domain.MethodSMS:
		if user.Phone == nil || *user.Phone == "" {
			return ErrNoDestination
		}
	case domain.MethodEmail:
		if user.Email == "" {
			return ErrNoDestination
		}
	}

	code, err := cryptox.GenerateCode()
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}

	err = s.Store.PendingCodes().UpsertPendingCode(ctx, domain.PendingCode{
		UserID:    userID,
		CodeHash:  cryptox.HashCode(code, userID),
		Method:    method,
		ExpiresAt: time.Now().UTC().Add(codeValidity),
	})
	if err != nil {
		return fmt.Errorf("failed to store pending code: %w", err)
	}

	if err := s.Sender.Send(ctx, user, method, code); err != nil {
		return fmt.Errorf("failed to deliver code: %w", err)
	}
	return nil
}

// CheckCode redeems a delivered code. A match consumes the pending code and
// returns the method it was sent over. Expired codes are purged and surface
// as ErrCodeExpired, distinct from ErrInvalidCode, so the user knows to
// request a fresh one.
func (s *DeliveryService) CheckCode(ctx context.Context, userID, code string) (domain.Method, error) {
	// Wrong-length input can never match a delivered code, so it is turned
	// away before the expensive hash and without touching the pending row.
	sanitized := cryptox.SanitizeDigits(code)
	if len(sanitized) != cryptox.CodeLength {
		return "", ErrInvalidCode
	}

	pending, err := s.Store.PendingCodes().GetPendingCode(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrInvalidCode
	}
	if err != nil {
		return "", fmt.Errorf("failed to load pending code: %w", err)
	}

	if pending.Expired(time.Now().UTC()) {
		if err := s.Store.PendingCodes().DeletePendingCode(ctx, userID); err != nil {
			return "", fmt.Errorf("failed to purge expired code: %w", err)
		}
		return "", ErrCodeExpired
	}

	hash := cryptox.HashCode(sanitized, userID)
	if !cryptox.ConstantTimeEquals(hash, pending.CodeHash) {
		return "", ErrInvalidCode
	}

	if err := s.Store.PendingCodes().DeletePendingCode(ctx, userID); err != nil {
		return "", fmt.Errorf("failed to consume code: %w", err)
	}
	return pending.Method, nil
}
