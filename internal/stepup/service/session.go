package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shiftwise/stepup/internal/stepup/domain"
	"github.com/shiftwise/stepup/internal/stepup/store"
)

const (
	// sessionValidity is how long a step-up verification vouches for a
	// platform session before the user must verify again.
	sessionValidity = 30 * time.Minute

	// sessionRefreshWindow slides the validity forward when a check lands
	// with less than this much time left. Active users stay verified;
	// idle sessions lapse.
	sessionRefreshWindow = 10 * time.Minute
)

// SessionService tracks which platform sessions have passed step-up
// verification. State lives in the shared store, so any instance can answer.
type SessionService struct {
	Store store.Store
}

// MarkVerified records that the session passed step-up verification just now.
func (s *SessionService) MarkVerified(ctx context.Context, sessionID, userID, fingerprint string) error {
	now := time.Now().UTC()
	err := s.Store.VerificationSessions().UpsertSession(ctx, domain.VerificationSession{
		SessionID:   sessionID,
		UserID:      userID,
		Fingerprint: fingerprint,
		VerifiedAt:  &now,
	})
	if err != nil {
		return fmt.Errorf("failed to mark session verified: %w", err)
	}
	return nil
}

// IsVerified reports whether the session still counts as verified for the
// user presenting the given client fingerprint. A fingerprint or user
// mismatch invalidates the session outright. A still-valid session close to
// expiry is refreshed.
func (s *SessionService) IsVerified(ctx context.Context, sessionID, userID, fingerprint string) (bool, error) {
	sess, err := s.Store.VerificationSessions().GetSession(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load verification session: %w", err)
	}

	// A different user or client on the same session id smells like
	// hijacking. Drop the verification and force a fresh step-up.
	if sess.UserID != userID || sess.Fingerprint != fingerprint {
		if err := s.Store.VerificationSessions().DeleteSession(ctx, sessionID); err != nil {
			return false, fmt.Errorf("failed to invalidate session: %w", err)
		}
		return false, nil
	}

	now := time.Now().UTC()
	if !sess.Verified(now, sessionValidity) {
		return false, nil
	}

	if now.Sub(*sess.VerifiedAt) > sessionValidity-sessionRefreshWindow {
		if err := s.MarkVerified(ctx, sessionID, userID, fingerprint); err != nil {
			return false, err
		}
	}
	return true, nil
}

// Clear drops the session's step-up verification, e.g. on logout.
func (s *SessionService) Clear(ctx context.Context, sessionID string) error {
	if err := s.Store.VerificationSessions().DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// ReminderDue reports whether the grace-period setup reminder should be shown
// for this session, marking it shown when due. Each session sees the
// reminder at most once.
func (s *SessionService) ReminderDue(ctx context.Context, sessionID, userID, fingerprint string) (bool, error) {
	now := time.Now().UTC()

	sess, err := s.Store.VerificationSessions().GetSession(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		err := s.Store.VerificationSessions().UpsertSession(ctx, domain.VerificationSession{
			SessionID:       sessionID,
			UserID:          userID,
			Fingerprint:     fingerprint,
			ReminderShownAt: &now,
		})
		if err != nil {
			return false, fmt.Errorf("failed to record reminder: %w", err)
		}
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load verification session: %w", err)
	}

	if sess.ReminderShownAt != nil {
		return false, nil
	}
	if err := s.Store.VerificationSessions().MarkReminderShown(ctx, sessionID, now); err != nil {
		return false, fmt.Errorf("failed to record reminder: %w", err)
	}
	return true, nil
}
