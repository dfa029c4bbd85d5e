package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shiftwise/stepup/internal/stepup/store"
)

// Rate-limited action names. Each carries its own hourly ceiling; anything
// else falls back to the default.
const (
	ActionVerify      = "verify"
	ActionCodeRequest = "code_request"
	ActionLogin       = "login"
	ActionSetup       = "setup"
)

const (
	rateWindow         = time.Hour
	defaultRateCeiling = 5
)

var rateCeilings = map[string]int{
	ActionVerify:      5,
	ActionCodeRequest: 3,
	ActionLogin:       10,
	ActionSetup:       10,
}

var ErrRateLimited = errors.New("too many attempts, try again later")

// RateLimiter enforces per-subject rolling-window limits on sensitive
// actions. Attempts are persisted so the window holds across instances and
// restarts.
type RateLimiter struct {
	Store store.Store
}

// ceilingFor returns the hourly attempt ceiling for an action.
func ceilingFor(action string) int {
	if c, ok := rateCeilings[action]; ok {
		return c
	}
	return defaultRateCeiling
}

// CheckAndRecord admits one attempt for (subject, action), recording it if
// admitted. Returns ErrRateLimited when the rolling-window ceiling is hit.
// The prune, count and insert run in one transaction so concurrent attempts
// cannot slip past the ceiling.
func (l *RateLimiter) CheckAndRecord(ctx context.Context, subject, action string) error {
	now := time.Now().UTC()
	windowStart := now.Add(-rateWindow)
	ceiling := ceilingFor(action)

	err := l.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.RateAttempts().PruneAttempts(ctx, subject, action, windowStart); err != nil {
			return fmt.Errorf("failed to prune attempts: %w", err)
		}

		count, err := tx.RateAttempts().CountAttemptsSince(ctx, subject, action, windowStart)
		if err != nil {
			return fmt.Errorf("failed to count attempts: %w", err)
		}
		if count >= ceiling {
			return ErrRateLimited
		}

		return tx.RateAttempts().RecordAttempt(ctx, subject, action, now)
	})
	return err
}

// Remaining reports how many attempts (subject, action) has left in the
// current window. Informational only; admission goes through CheckAndRecord.
func (l *RateLimiter) Remaining(ctx context.Context, subject, action string) (int, error) {
	now := time.Now().UTC()

	count, err := l.Store.RateAttempts().CountAttemptsSince(ctx, subject, action, now.Add(-rateWindow))
	if err != nil {
		return 0, fmt.Errorf("failed to count attempts: %w", err)
	}

	remaining := ceilingFor(action) - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
