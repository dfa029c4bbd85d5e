package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shiftwise/stepup/internal/stepup/domain"
	"github.com/shiftwise/stepup/internal/stepup/store"
	"github.com/shiftwise/stepup/pkg/cryptox"
)

// StatusRequest carries everything a status resolution needs about the
// caller. DeviceToken is optional.
type StatusRequest struct {
	UserID      string
	SessionID   string
	UserAgent   string
	IPAddress   string
	DeviceToken string
}

// StatusService answers the central question: what must this (user, session)
// do before it may proceed. The resolution order is fixed; the first rule
// that fires wins.
type StatusService struct {
	Store    store.Store
	Sessions *SessionService
	Devices  *DeviceService
}

// Resolve walks the step-up state machine for one request:
//
//  1. unknown user              -> error / login
//  2. policy does not apply     -> not_required / proceed
//  3. enabled + session valid   -> verified / proceed
//  4. enabled + trusted device  -> trusted_device / proceed
//  5. enabled                   -> setup_complete / verify
//  6. grace period open         -> grace_period / proceed (reminder once)
//  7. anything else             -> setup_required / setup
func (s *StatusService) Resolve(ctx context.Context, req StatusRequest) (domain.Verdict, error) {
	user, err := s.Store.Users().GetUserByID(ctx, req.UserID)
	if errors.Is(err, store.ErrNotFound) {
		// Token for a user we have no projection of. Send them back
		// through the platform login so the upsert hook runs.
		return domain.Verdict{
			Status:  domain.StatusError,
			Action:  domain.ActionLogin,
			Message: "account not recognized, sign in again",
		}, nil
	}
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("failed to load user: %w", err)
	}

	settings, err := s.Store.Settings().Get(ctx)
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("failed to load settings: %w", err)
	}
	if !settings.RequiredFor(user) {
		return domain.Verdict{Status: domain.StatusNotRequired, Action: domain.ActionProceed}, nil
	}

	record, err := s.getOrStartGrace(ctx, req.UserID)
	if err != nil {
		return domain.Verdict{}, err
	}

	now := time.Now().UTC()
	fingerprint := cryptox.ClientFingerprint(req.UserAgent, req.IPAddress)

	if record.Status == domain.TwoFactorEnabled {
		verified, err := s.Sessions.IsVerified(ctx, req.SessionID, req.UserID, fingerprint)
		if err != nil {
			return domain.Verdict{}, err
		}
		if verified {
			return domain.Verdict{Status: domain.StatusVerified, Action: domain.ActionProceed}, nil
		}

		if req.DeviceToken != "" {
			trusted, err := s.Devices.IsTrusted(ctx, req.UserID, req.DeviceToken)
			if err != nil {
				return domain.Verdict{}, err
			}
			if trusted {
				if err := s.Sessions.MarkVerified(ctx, req.SessionID, req.UserID, fingerprint); err != nil {
					return domain.Verdict{}, err
				}
				return domain.Verdict{Status: domain.StatusTrustedDevice, Action: domain.ActionProceed}, nil
			}
		}

		return domain.Verdict{Status: domain.StatusSetupComplete, Action: domain.ActionVerify}, nil
	}

	if record.InGracePeriod(now, settings.GracePeriodDays) {
		verdict := domain.Verdict{Status: domain.StatusGracePeriod, Action: domain.ActionProceed}

		due, err := s.Sessions.ReminderDue(ctx, req.SessionID, req.UserID, fingerprint)
		if err != nil {
			return domain.Verdict{}, err
		}
		if due {
			deadline := record.GracePeriodStart.Add(time.Duration(settings.GracePeriodDays) * 24 * time.Hour)
			verdict.Action = domain.ActionRemindSetup
			verdict.Message = fmt.Sprintf(
				"Two-factor authentication setup is required before %s.",
				deadline.Format("2 January 2006"))
		}
		return verdict, nil
	}

	return domain.Verdict{Status: domain.StatusSetupRequired, Action: domain.ActionSetup}, nil
}

// getOrStartGrace returns the user's 2fa record, opening the grace period on
// first contact.
func (s *StatusService) getOrStartGrace(ctx context.Context, userID string) (domain.TwoFactorRecord, error) {
	record, err := s.Store.TwoFactor().GetRecord(ctx, userID)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.TwoFactorRecord{}, fmt.Errorf("failed to load 2fa record: %w", err)
	}

	now := time.Now().UTC()
	record = domain.TwoFactorRecord{
		UserID:           userID,
		Status:           domain.TwoFactorGracePeriod,
		GracePeriodStart: &now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.Store.TwoFactor().CreateRecord(ctx, record); err != nil {
		// Lost a creation race; read whoever won.
		if record, rerr := s.Store.TwoFactor().GetRecord(ctx, userID); rerr == nil {
			return record, nil
		}
		return domain.TwoFactorRecord{}, fmt.Errorf("failed to create 2fa record: %w", err)
	}
	return record, nil
}
