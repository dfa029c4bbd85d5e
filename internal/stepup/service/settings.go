package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shiftwise/stepup/internal/stepup/domain"
	"github.com/shiftwise/stepup/internal/stepup/store"
)

var ErrInvalidSettings = errors.New("invalid settings")

// SettingsService exposes the global 2FA policy to admins.
type SettingsService struct {
	Store store.Store
}

func (s *SettingsService) Get(ctx context.Context) (domain.Settings, error) {
	settings, err := s.Store.Settings().Get(ctx)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

// Update validates and stores the policy. At least one method must remain
// enabled while the system is on, or nobody could ever finish setup.
func (s *SettingsService) Update(ctx context.Context, settings domain.Settings) (domain.Settings, error) {
	if settings.SystemEnabled && !settings.TOTPEnabled && !settings.SMSEnabled && !settings.EmailEnabled {
		return domain.Settings{}, fmt.Errorf("%w: all methods disabled", ErrInvalidSettings)
	}
	if settings.GracePeriodDays < 0 || settings.GracePeriodDays > 90 {
		return domain.Settings{}, fmt.Errorf("%w: grace period out of range", ErrInvalidSettings)
	}
	if settings.RememberDeviceDays < 1 || settings.RememberDeviceDays > 365 {
		return domain.Settings{}, fmt.Errorf("%w: remember-device days out of range", ErrInvalidSettings)
	}
	if settings.BackupCodesCount < 1 || settings.BackupCodesCount > 20 {
		return domain.Settings{}, fmt.Errorf("%w: backup code count out of range", ErrInvalidSettings)
	}

	settings.UpdatedAt = time.Now().UTC()
	if err := s.Store.Settings().Update(ctx, settings); err != nil {
		return domain.Settings{}, fmt.Errorf("failed to update settings: %w", err)
	}
	return settings, nil
}
