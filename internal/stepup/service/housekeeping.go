package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/shiftwise/stepup/internal/stepup/store"
)

// sessionRetention bounds how long verification-session rows (and their
// reminder flags) survive. Generous next to the 30 minute validity so the
// once-per-session reminder holds for realistic session lengths.
const sessionRetention = 24 * time.Hour

// HousekeepingService periodically purges expired rows so the database does
// not grow without bound: lapsed verification sessions, expired pending
// codes, expired trusted devices, and rate attempts outside every window.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates the background cleaner. An interval of 0 or
// less defaults to 1 hour.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	return &HousekeepingService{
		Store:    st,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start launches the background worker. Non-blocking; call Stop to shut it
// down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping started", "interval", s.Interval)
}

// Stop shuts the worker down, blocking until any in-progress sweep finishes.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Sweep(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Sweep(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Sweep runs one cleanup pass. Each deletion is independent; a failure in
// one does not stop the others.
func (s *HousekeepingService) Sweep(ctx context.Context) {
	now := time.Now().UTC()

	if err := s.Store.VerificationSessions().DeleteStaleSessions(ctx, now.Add(-sessionRetention)); err != nil {
		s.Logger.Error("failed to purge stale sessions", "error", err)
	}
	if err := s.Store.PendingCodes().DeleteExpiredPendingCodes(ctx, now); err != nil {
		s.Logger.Error("failed to purge expired pending codes", "error", err)
	}
	if err := s.Store.TrustedDevices().DeleteExpiredDevices(ctx, now); err != nil {
		s.Logger.Error("failed to purge expired trusted devices", "error", err)
	}
	if err := s.Store.RateAttempts().DeleteAttemptsBefore(ctx, now.Add(-rateWindow)); err != nil {
		s.Logger.Error("failed to purge stale rate attempts", "error", err)
	}

	s.Logger.Debug("housekeeping sweep complete")
}
