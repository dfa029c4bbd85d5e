package sqlite

import (
	"context"
	"database/sql"

	"github.com/shiftwise/stepup/internal/stepup/store"
)

type txStore struct {
	tx *sql.Tx
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // outer DB stays open

// Ping is a no-op inside a transaction; the connection already exists.
func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) ApplyMigrations() error { return nil } // applied before any tx starts

func (t *txStore) Users() store.Users                 { return &usersRepo{db: t.tx} }
func (t *txStore) TwoFactor() store.TwoFactor         { return &twoFactorRepo{db: t.tx} }
func (t *txStore) Settings() store.Settings           { return &settingsRepo{db: t.tx} }
func (t *txStore) TrustedDevices() store.TrustedDevices {
	return &trustedDevicesRepo{db: t.tx}
}
func (t *txStore) BackupCodes() store.BackupCodes { return &backupCodesRepo{db: t.tx} }
func (t *txStore) VerificationSessions() store.VerificationSessions {
	return &verificationSessionsRepo{db: t.tx}
}
func (t *txStore) PendingCodes() store.PendingCodes { return &pendingCodesRepo{db: t.tx} }
func (t *txStore) RateAttempts() store.RateAttempts { return &rateAttemptsRepo{db: t.tx} }
