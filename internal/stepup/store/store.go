package store

import (
	"context"
	"errors"
	"time"

	"github.com/shiftwise/stepup/internal/stepup/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today,
// postgres later) implement this. It exposes sub-repositories to keep
// concerns tidy and testable.
type Store interface {
	Users() Users
	TwoFactor() TwoFactor
	Settings() Settings
	TrustedDevices() TrustedDevices
	BackupCodes() BackupCodes
	VerificationSessions() VerificationSessions
	PendingCodes() PendingCodes
	RateAttempts() RateAttempts

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing on nil and
	// rolling back on error. The recommended way to do multi-step writes.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. Same repos plus Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user projection by platform ID.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// UpsertUser inserts or replaces a user projection.
	UpsertUser(ctx context.Context, u domain.User) error

	// DeleteUser removes a projection; 2FA state cascades per schema.
	DeleteUser(ctx context.Context, id string) error
}

type TwoFactor interface {
	// GetRecord returns the user's 2FA record.
	GetRecord(ctx context.Context, userID string) (domain.TwoFactorRecord, error)

	// CreateRecord inserts a fresh record (lazy creation on first check).
	CreateRecord(ctx context.Context, r domain.TwoFactorRecord) error

	// UpdateRecord replaces all mutable fields and bumps updated_at.
	UpdateRecord(ctx context.Context, r domain.TwoFactorRecord) error
}

type Settings interface {
	// Get returns the single policy row.
	Get(ctx context.Context) (domain.Settings, error)

	// Update replaces the policy row.
	Update(ctx context.Context, s domain.Settings) error
}

type TrustedDevices interface {
	// CreateDevice stores a new trusted device.
	CreateDevice(ctx context.Context, d domain.TrustedDevice) error

	// GetDeviceByTokenHash returns the user's device matching the token
	// fingerprint, expired or not; the caller decides what expiry means.
	GetDeviceByTokenHash(ctx context.Context, userID, tokenHash string) (domain.TrustedDevice, error)

	// TouchDevice refreshes last_used_at. Expiry is never extended.
	TouchDevice(ctx context.Context, id string, usedAt time.Time) error

	// ListDevicesByUser returns the user's devices, newest first.
	ListDevicesByUser(ctx context.Context, userID string) ([]domain.TrustedDevice, error)

	// DeleteDevice removes one device owned by the user.
	DeleteDevice(ctx context.Context, userID, id string) error

	// DeleteExpiredDevices is housekeeping.
	DeleteExpiredDevices(ctx context.Context, now time.Time) error
}

type BackupCodes interface {
	// CreateBackupCode stores a backup code hash for a user.
	CreateBackupCode(ctx context.Context, userID, codeHash string) error

	// GetBackupCode returns the code row (including used state).
	GetBackupCode(ctx context.Context, userID, codeHash string) (usedAt *time.Time, err error)

	// MarkBackupCodeUsed consumes a code. Codes are single-use.
	MarkBackupCodeUsed(ctx context.Context, userID, codeHash string, usedAt time.Time) error

	// DeleteAllBackupCodes removes every code for a user (regeneration).
	DeleteAllBackupCodes(ctx context.Context, userID string) error

	// CountUnusedBackupCodes returns how many codes remain redeemable.
	CountUnusedBackupCodes(ctx context.Context, userID string) (int, error)
}

type VerificationSessions interface {
	// UpsertSession records or refreshes a verified session.
	UpsertSession(ctx context.Context, s domain.VerificationSession) error

	// GetSession returns the verification state for a platform session.
	GetSession(ctx context.Context, sessionID string) (domain.VerificationSession, error)

	// MarkReminderShown flags the once-per-session grace reminder.
	MarkReminderShown(ctx context.Context, sessionID string, at time.Time) error

	// DeleteSession clears step-up verification (logout).
	DeleteSession(ctx context.Context, sessionID string) error

	// DeleteStaleSessions is housekeeping: drops rows whose verification
	// (or reminder, for reminder-only rows) predates cutoff.
	DeleteStaleSessions(ctx context.Context, cutoff time.Time) error
}

type PendingCodes interface {
	// UpsertPendingCode stores a delivered code hash, replacing any
	// outstanding one for the user.
	UpsertPendingCode(ctx context.Context, p domain.PendingCode) error

	// GetPendingCode returns the user's outstanding code.
	GetPendingCode(ctx context.Context, userID string) (domain.PendingCode, error)

	// DeletePendingCode purges the user's outstanding code.
	DeletePendingCode(ctx context.Context, userID string) error

	// DeleteExpiredPendingCodes is housekeeping.
	DeleteExpiredPendingCodes(ctx context.Context, now time.Time) error
}

type RateAttempts interface {
	// CountAttemptsSince counts attempts for (subject, action) at or after
	// since.
	CountAttemptsSince(ctx context.Context, subject, action string, since time.Time) (int, error)

	// RecordAttempt appends an attempt timestamp.
	RecordAttempt(ctx context.Context, subject, action string, at time.Time) error

	// PruneAttempts drops attempts older than cutoff for one key. Called
	// inline on every check to keep the window rolling.
	PruneAttempts(ctx context.Context, subject, action string, cutoff time.Time) error

	// DeleteAttemptsBefore is global housekeeping across all keys.
	DeleteAttemptsBefore(ctx context.Context, cutoff time.Time) error
}
