package sqlite

import (
	"context"
	"time"
)

type rateAttemptsRepo struct {
	db dbtx
}

func (r *rateAttemptsRepo) CountAttemptsSince(ctx context.Context, subject, action string, since time.Time) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM rate_attempts
		WHERE subject = ? AND action = ? AND attempted_at >= ?`,
		subject, action, toUnix(since))

	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *rateAttemptsRepo) RecordAttempt(ctx context.Context, subject, action string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO rate_attempts (subject, action, attempted_at) VALUES (?, ?, ?)`,
		subject, action, toUnix(at))
	return err
}

func (r *rateAttemptsRepo) PruneAttempts(ctx context.Context, subject, action string, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM rate_attempts
		WHERE subject = ? AND action = ? AND attempted_at < ?`,
		subject, action, toUnix(cutoff))
	return err
}

func (r *rateAttemptsRepo) DeleteAttemptsBefore(ctx context.Context, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM rate_attempts WHERE attempted_at < ?`, toUnix(cutoff))
	return err
}
