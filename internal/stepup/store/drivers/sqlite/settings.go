package sqlite

import (
	"context"
	"time"

	"github.com/shiftwise/stepup/internal/stepup/domain"
)

type settingsRepo struct {
	db dbtx
}

func (r *settingsRepo) Get(ctx context.Context) (domain.Settings, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT system_enabled, require_admin_only, totp_enabled, sms_enabled,
		       email_enabled, remember_device_enabled, grace_period_days,
		       remember_device_days, backup_codes_count, updated_at
		FROM two_factor_settings WHERE id = 1`)

	var (
		s                                         domain.Settings
		system, adminOnly, totp, sms, email, rd   int
		updatedAt                                 int64
	)
	err := row.Scan(&system, &adminOnly, &totp, &sms, &email, &rd,
		&s.GracePeriodDays, &s.RememberDeviceDays, &s.BackupCodesCount, &updatedAt)
	if err != nil {
		return domain.Settings{}, mapNotFound(err)
	}

	s.SystemEnabled = system != 0
	s.RequireAdminOnly = adminOnly != 0
	s.TOTPEnabled = totp != 0
	s.SMSEnabled = sms != 0
	s.EmailEnabled = email != 0
	s.RememberDeviceEnabled = rd != 0
	s.UpdatedAt = fromUnix(updatedAt)
	return s, nil
}

func (r *settingsRepo) Update(ctx context.Context, s domain.Settings) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE two_factor_settings SET
			system_enabled = ?, require_admin_only = ?, totp_enabled = ?,
			sms_enabled = ?, email_enabled = ?, remember_device_enabled = ?,
			grace_period_days = ?, remember_device_days = ?,
			backup_codes_count = ?, updated_at = ?
		WHERE id = 1`,
		boolToInt(s.SystemEnabled), boolToInt(s.RequireAdminOnly),
		boolToInt(s.TOTPEnabled), boolToInt(s.SMSEnabled), boolToInt(s.EmailEnabled),
		boolToInt(s.RememberDeviceEnabled), s.GracePeriodDays,
		s.RememberDeviceDays, s.BackupCodesCount, toUnix(time.Now()))
	return err
}
