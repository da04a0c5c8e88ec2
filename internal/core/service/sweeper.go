package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/neon-lab-dev/medhrplus-server/internal/core/ports"
	"github.com/neon-lab-dev/medhrplus-server/internal/metrics"
)

const (
	defaultSweepInterval = time.Minute
	sweepLockKey         = "lock:registration-sweep"
)

// RegistrationSweeper periodically deletes accounts whose registration code
// expired before they were verified. It holds no state of its own and talks
// to the store through the same repositories the request handlers use.
type RegistrationSweeper struct {
	targets  map[string]ports.ExpiredRegistrationPurger
	locker   ports.Locker
	interval time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

// NewRegistrationSweeper sweeps every target (keyed by role, for logging)
// once per interval. locker may be nil when a single replica runs.
func NewRegistrationSweeper(
	targets map[string]ports.ExpiredRegistrationPurger,
	locker ports.Locker,
	interval time.Duration,
	log zerolog.Logger,
) *RegistrationSweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &RegistrationSweeper{
		targets:  targets,
		locker:   locker,
		interval: interval,
		log:      log,
		now:      time.Now,
	}
}

// Run sweeps on every tick until ctx is cancelled.
func (s *RegistrationSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.Info().Dur("interval", s.interval).Msg("registration sweeper started")
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("registration sweeper stopped")
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce performs one pass and returns how many accounts were deleted.
// When another replica holds the sweep lease the pass is skipped.
func (s *RegistrationSweeper) SweepOnce(ctx context.Context) int64 {
	if s.locker != nil {
		ok, err := s.locker.TryLock(ctx, sweepLockKey, s.interval/2)
		if err != nil {
			s.log.Warn().Err(err).Msg("sweep lease unavailable, sweeping anyway")
		} else if !ok {
			s.log.Debug().Msg("sweep lease held elsewhere, skipping")
			return 0
		}
	}

	start := time.Now()
	defer func() { metrics.SweepDuration.Observe(time.Since(start).Seconds()) }()

	now := s.now().UTC()
	var total int64
	for role, target := range s.targets {
		n, err := target.DeleteExpiredUnverified(ctx, now)
		if err != nil {
			s.log.Error().Err(err).Str("role", role).Msg("registration sweep failed")
			continue
		}
		if n > 0 {
			metrics.RegistrationsSweptTotal.WithLabelValues(role).Add(float64(n))
			s.log.Info().Str("role", role).Int64("deleted", n).Msg("expired registrations removed")
		}
		total += n
	}
	return total
}
