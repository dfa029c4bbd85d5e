package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/shiftwise/stepup/internal/stepup/domain"
)

type twoFactorRepo struct {
	db dbtx
}

func (r *twoFactorRepo) GetRecord(ctx context.Context, userID string) (domain.TwoFactorRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, status, primary_method, secret_enc, phone_number,
		       grace_period_start, last_verified_at, verification_attempts,
		       locked_until, created_at, updated_at
		FROM two_factor WHERE user_id = ?`, userID)

	var (
		rec              domain.TwoFactorRecord
		status           string
		method           sql.NullString
		secretEnc        []byte
		phone            sql.NullString
		gracePeriodStart sql.NullInt64
		lastVerifiedAt   sql.NullInt64
		lockedUntil      sql.NullInt64
		createdAt        int64
		updatedAt        int64
	)
	err := row.Scan(&rec.UserID, &status, &method, &secretEnc, &phone,
		&gracePeriodStart, &lastVerifiedAt, &rec.VerificationAttempts,
		&lockedUntil, &createdAt, &updatedAt)
	if err != nil {
		return domain.TwoFactorRecord{}, mapNotFound(err)
	}

	rec.Status = domain.TwoFactorStatus(status)
	if method.Valid {
		rec.PrimaryMethod = domain.Method(method.String)
	}
	rec.SecretEnc = secretEnc
	rec.PhoneNumber = mapNullString(phone)
	rec.GracePeriodStart = fromNullUnix(gracePeriodStart)
	rec.LastVerifiedAt = fromNullUnix(lastVerifiedAt)
	rec.LockedUntil = fromNullUnix(lockedUntil)
	rec.CreatedAt = fromUnix(createdAt)
	rec.UpdatedAt = fromUnix(updatedAt)
	return rec, nil
}

func (r *twoFactorRepo) CreateRecord(ctx context.Context, rec domain.TwoFactorRecord) error {
	now := time.Now()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO two_factor (user_id, status, primary_method, secret_enc,
			phone_number, grace_period_start, last_verified_at,
			verification_attempts, locked_until, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.UserID, string(rec.Status), methodToNull(rec.PrimaryMethod), rec.SecretEnc,
		mapOptionalString(rec.PhoneNumber), toNullUnix(rec.GracePeriodStart),
		toNullUnix(rec.LastVerifiedAt), rec.VerificationAttempts,
		toNullUnix(rec.LockedUntil), toUnix(now), toUnix(now))
	return err
}

func (r *twoFactorRepo) UpdateRecord(ctx context.Context, rec domain.TwoFactorRecord) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE two_factor SET
			status = ?, primary_method = ?, secret_enc = ?, phone_number = ?,
			grace_period_start = ?, last_verified_at = ?,
			verification_attempts = ?, locked_until = ?, updated_at = ?
		WHERE user_id = ?`,
		string(rec.Status), methodToNull(rec.PrimaryMethod), rec.SecretEnc,
		mapOptionalString(rec.PhoneNumber), toNullUnix(rec.GracePeriodStart),
		toNullUnix(rec.LastVerifiedAt), rec.VerificationAttempts,
		toNullUnix(rec.LockedUntil), toUnix(time.Now()), rec.UserID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}

func methodToNull(m domain.Method) sql.NullString {
	if m == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: string(m), Valid: true}
}
