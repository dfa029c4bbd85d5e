package sqlite

import (
	"context"
	"database/sql"
	"time"
)

type backupCodesRepo struct {
	db dbtx
}

func (r *backupCodesRepo) CreateBackupCode(ctx context.Context, userID, codeHash string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO backup_codes (user_id, code_hash, created_at, used_at)
		VALUES (?, ?, ?, NULL)`,
		userID, codeHash, toUnix(time.Now()))
	return err
}

func (r *backupCodesRepo) GetBackupCode(ctx context.Context, userID, codeHash string) (*time.Time, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT used_at FROM backup_codes WHERE user_id = ? AND code_hash = ?`,
		userID, codeHash)

	var usedAt sql.NullInt64
	if err := row.Scan(&usedAt); err != nil {
		return nil, mapNotFound(err)
	}
	return fromNullUnix(usedAt), nil
}

func (r *backupCodesRepo) MarkBackupCodeUsed(ctx context.Context, userID, codeHash string, usedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE backup_codes SET used_at = ?
		WHERE user_id = ? AND code_hash = ? AND used_at IS NULL`,
		toUnix(usedAt), userID, codeHash)
	if err != nil {
		return err
	}

	// Zero rows means the code was unknown or already spent; both surface
	// as not-found so a raced double redemption fails cleanly.
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return mapNotFound(sql.ErrNoRows)
	}
	return nil
}

func (r *backupCodesRepo) DeleteAllBackupCodes(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM backup_codes WHERE user_id = ?`, userID)
	return err
}

func (r *backupCodesRepo) CountUnusedBackupCodes(ctx context.Context, userID string) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM backup_codes WHERE user_id = ? AND used_at IS NULL`,
		userID)

	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
