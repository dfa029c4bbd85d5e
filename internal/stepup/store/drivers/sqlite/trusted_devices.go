package sqlite

import (
	"context"
	"time"

	"github.com/shiftwise/stepup/internal/stepup/domain"
)

type trustedDevicesRepo struct {
	db dbtx
}

const trustedDeviceColumns = `id, user_id, token_hash, name, user_agent, ip_address,
	created_at, last_used_at, expires_at`

func (r *trustedDevicesRepo) CreateDevice(ctx context.Context, d domain.TrustedDevice) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO trusted_devices (`+trustedDeviceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.UserID, d.TokenHash, d.Name, d.UserAgent, d.IPAddress,
		toUnix(d.CreatedAt), toUnix(d.LastUsedAt), toUnix(d.ExpiresAt))
	return err
}

func (r *trustedDevicesRepo) GetDeviceByTokenHash(ctx context.Context, userID, tokenHash string) (domain.TrustedDevice, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+trustedDeviceColumns+`
		FROM trusted_devices WHERE user_id = ? AND token_hash = ?`,
		userID, tokenHash)
	return scanDevice(row)
}

func (r *trustedDevicesRepo) TouchDevice(ctx context.Context, id string, usedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE trusted_devices SET last_used_at = ? WHERE id = ?`,
		toUnix(usedAt), id)
	return err
}

func (r *trustedDevicesRepo) ListDevicesByUser(ctx context.Context, userID string) ([]domain.TrustedDevice, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+trustedDeviceColumns+`
		FROM trusted_devices WHERE user_id = ? ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var devices []domain.TrustedDevice
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}

func (r *trustedDevicesRepo) DeleteDevice(ctx context.Context, userID, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM trusted_devices WHERE user_id = ? AND id = ?`, userID, id)
	return err
}

func (r *trustedDevicesRepo) DeleteExpiredDevices(ctx context.Context, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM trusted_devices WHERE expires_at <= ?`, toUnix(now))
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDevice(row rowScanner) (domain.TrustedDevice, error) {
	var (
		d                                 domain.TrustedDevice
		createdAt, lastUsedAt, expiresAt int64
	)
	err := row.Scan(&d.ID, &d.UserID, &d.TokenHash, &d.Name, &d.UserAgent,
		&d.IPAddress, &createdAt, &lastUsedAt, &expiresAt)
	if err != nil {
		return domain.TrustedDevice{}, mapNotFound(err)
	}

	d.CreatedAt = fromUnix(createdAt)
	d.LastUsedAt = fromUnix(lastUsedAt)
	d.ExpiresAt = fromUnix(expiresAt)
	return d, nil
}
