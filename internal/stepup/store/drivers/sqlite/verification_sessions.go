package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/shiftwise/stepup/internal/stepup/domain"
)

type verificationSessionsRepo struct {
	db dbtx
}

func (r *verificationSessionsRepo) UpsertSession(ctx context.Context, s domain.VerificationSession) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO verification_sessions (session_id, user_id, fingerprint, verified_at, reminder_shown_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			user_id = excluded.user_id,
			fingerprint = excluded.fingerprint,
			verified_at = COALESCE(excluded.verified_at, verified_at)`,
		s.SessionID, s.UserID, s.Fingerprint, toNullUnix(s.VerifiedAt),
		toNullUnix(s.ReminderShownAt))
	return err
}

func (r *verificationSessionsRepo) GetSession(ctx context.Context, sessionID string) (domain.VerificationSession, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT session_id, user_id, fingerprint, verified_at, reminder_shown_at
		FROM verification_sessions WHERE session_id = ?`, sessionID)

	var (
		s             domain.VerificationSession
		verifiedAt    sql.NullInt64
		reminderShown sql.NullInt64
	)
	err := row.Scan(&s.SessionID, &s.UserID, &s.Fingerprint, &verifiedAt, &reminderShown)
	if err != nil {
		return domain.VerificationSession{}, mapNotFound(err)
	}

	s.VerifiedAt = fromNullUnix(verifiedAt)
	s.ReminderShownAt = fromNullUnix(reminderShown)
	return s, nil
}

func (r *verificationSessionsRepo) MarkReminderShown(ctx context.Context, sessionID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE verification_sessions SET reminder_shown_at = ? WHERE session_id = ?`,
		toUnix(at), sessionID)
	return err
}

func (r *verificationSessionsRepo) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM verification_sessions WHERE session_id = ?`, sessionID)
	return err
}

func (r *verificationSessionsRepo) DeleteStaleSessions(ctx context.Context, cutoff time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM verification_sessions
		WHERE COALESCE(verified_at, reminder_shown_at, 0) < ?`, toUnix(cutoff))
	return err
}
