package sqlite

import (
	"context"
	"time"

	"github.com/shiftwise/stepup/internal/stepup/domain"
)

type pendingCodesRepo struct {
	db dbtx
}

func (r *pendingCodesRepo) UpsertPendingCode(ctx context.Context, p domain.PendingCode) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pending_codes (user_id, code_hash, method, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			code_hash = excluded.code_hash,
			method = excluded.method,
			expires_at = excluded.expires_at`,
		p.UserID, p.CodeHash, string(p.Method), toUnix(p.ExpiresAt))
	return err
}

func (r *pendingCodesRepo) GetPendingCode(ctx context.Context, userID string) (domain.PendingCode, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, code_hash, method, expires_at
		FROM pending_codes WHERE user_id = ?`, userID)

	var (
		p         domain.PendingCode
		method    string
		expiresAt int64
	)
	if err := row.Scan(&p.UserID, &p.CodeHash, &method, &expiresAt); err != nil {
		return domain.PendingCode{}, mapNotFound(err)
	}

	p.Method = domain.Method(method)
	p.ExpiresAt = fromUnix(expiresAt)
	return p, nil
}

func (r *pendingCodesRepo) DeletePendingCode(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM pending_codes WHERE user_id = ?`, userID)
	return err
}

func (r *pendingCodesRepo) DeleteExpiredPendingCodes(ctx context.Context, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM pending_codes WHERE expires_at <= ?`, toUnix(now))
	return err
}
