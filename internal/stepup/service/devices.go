package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/shiftwise/stepup/internal/stepup/domain"
	"github.com/shiftwise/stepup/internal/stepup/store"
	"github.com/shiftwise/stepup/pkg/cryptox"
	"github.com/shiftwise/stepup/pkg/idx"
)

var (
	ErrRememberDisabled = errors.New("remember device is disabled by policy")
	ErrDeviceNotFound   = errors.New("trusted device not found")
)

// deviceTokenPattern is the accepted shape for client-presented device
// tokens. Anything outside it is rejected before touching the database.
var deviceTokenPattern = regexp.MustCompile(`^[A-Za-z0-9\-_]{32,128}$`)

const deviceTokenMinDistinct = 10

// DeviceService issues and checks "remember this device" tokens. The client
// keeps the opaque token; the store only ever sees its fingerprint.
type DeviceService struct {
	Store store.Store
}

// ValidTokenFormat reports whether a client-presented token is even worth a
// database lookup. Length and charset per deviceTokenPattern, plus a minimum
// spread of distinct characters to reject degenerate strings.
func ValidTokenFormat(token string) bool {
	if !deviceTokenPattern.MatchString(token) {
		return false
	}
	distinct := make(map[rune]struct{}, len(token))
	for _, r := range token {
		distinct[r] = struct{}{}
	}
	return len(distinct) >= deviceTokenMinDistinct
}

// IsTrusted reports whether token identifies a live trusted device for the
// user, touching its last-used timestamp when it does.
func (s *DeviceService) IsTrusted(ctx context.Context, userID, token string) (bool, error) {
	if !ValidTokenFormat(token) {
		return false, nil
	}

	// Policy is checked on every use, not just at creation, so turning
	// remember-device off stops devices that were minted while it was on.
	settings, err := s.Store.Settings().Get(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load settings: %w", err)
	}
	if !settings.RememberDeviceEnabled {
		return false, nil
	}

	hash := cryptox.FingerprintToken(token)
	device, err := s.Store.TrustedDevices().GetDeviceByTokenHash(ctx, userID, hash)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up trusted device: %w", err)
	}

	now := time.Now().UTC()
	if device.Expired(now) {
		if err := s.Store.TrustedDevices().DeleteDevice(ctx, userID, device.ID); err != nil {
			return false, fmt.Errorf("failed to drop expired device: %w", err)
		}
		return false, nil
	}

	if err := s.Store.TrustedDevices().TouchDevice(ctx, device.ID, now); err != nil {
		return false, fmt.Errorf("failed to touch trusted device: %w", err)
	}
	return true, nil
}

// Trust mints a trusted-device token for the user and returns the plaintext
// token exactly once. Expiry is fixed by policy at creation and never
// extended by use.
func (s *DeviceService) Trust(ctx context.Context, userID, name, userAgent, ipAddress string) (string, domain.TrustedDevice, error) {
	settings, err := s.Store.Settings().Get(ctx)
	if err != nil {
		return "", domain.TrustedDevice{}, fmt.Errorf("failed to load settings: %w", err)
	}
	if !settings.RememberDeviceEnabled {
		return "", domain.TrustedDevice{}, ErrRememberDisabled
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", domain.TrustedDevice{}, fmt.Errorf("failed to generate device token: %w", err)
	}

	now := time.Now().UTC()
	device := domain.TrustedDevice{
		ID:         idx.New().String(),
		UserID:     userID,
		TokenHash:  cryptox.FingerprintToken(token),
		Name:       name,
		UserAgent:  userAgent,
		IPAddress:  ipAddress,
		CreatedAt:  now,
		LastUsedAt: now,
		ExpiresAt:  now.Add(time.Duration(settings.RememberDeviceDays) * 24 * time.Hour),
	}

	if err := s.Store.TrustedDevices().CreateDevice(ctx, device); err != nil {
		return "", domain.TrustedDevice{}, fmt.Errorf("failed to store trusted device: %w", err)
	}
	return token, device, nil
}

// List returns the user's trusted devices, newest first.
func (s *DeviceService) List(ctx context.Context, userID string) ([]domain.TrustedDevice, error) {
	devices, err := s.Store.TrustedDevices().ListDevicesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trusted devices: %w", err)
	}
	return devices, nil
}

// Revoke removes one of the user's trusted devices.
func (s *DeviceService) Revoke(ctx context.Context, userID, deviceID string) error {
	devices, err := s.Store.TrustedDevices().ListDevicesByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list trusted devices: %w", err)
	}

	for _, d := range devices {
		if d.ID == deviceID {
			if err := s.Store.TrustedDevices().DeleteDevice(ctx, userID, deviceID); err != nil {
				return fmt.Errorf("failed to revoke trusted device: %w", err)
			}
			return nil
		}
	}
	return ErrDeviceNotFound
}

// RevokeAll removes every trusted device the user has.
func (s *DeviceService) RevokeAll(ctx context.Context, userID string) error {
	devices, err := s.Store.TrustedDevices().ListDevicesByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list trusted devices: %w", err)
	}
	for _, d := range devices {
		if err := s.Store.TrustedDevices().DeleteDevice(ctx, userID, d.ID); err != nil {
			return fmt.Errorf("failed to revoke trusted device: %w", err)
		}
	}
	return nil
}
