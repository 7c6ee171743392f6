package notify

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"broilerfarm/internal/domain/auth"
	"broilerfarm/pkg/logger"
)

// sentRetention is how long delivered notifications stay in the outbox.
const sentRetention = 30 * 24 * time.Hour

// outboxDispatcher is the dispatcher surface the scheduler drives.
type outboxDispatcher interface {
	ProcessBatch(ctx context.Context) (int, error)
	PurgeSent(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Scheduler runs the background jobs: draining the notification
// outbox, purging delivered alerts and cleaning up expired refresh
// tokens.
type Scheduler struct {
	cron       *cron.Cron
	dispatcher outboxDispatcher
	tokens     auth.TokenRepository
	log        *logger.Logger
	draining   atomic.Bool
}

// NewScheduler creates a new scheduler.
func NewScheduler(dispatcher outboxDispatcher, tokens auth.TokenRepository, log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		dispatcher: dispatcher,
		tokens:     tokens,
		log:        log,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	// Drain the outbox every minute.
	if _, err := s.cron.AddFunc("* * * * *", s.drainOutbox); err != nil {
		return err
	}

	// Housekeeping at 03:00.
	if _, err := s.cron.AddFunc("0 3 * * *", s.housekeeping); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("scheduler started")
	return nil
}

// Stop stops the cron loop and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) drainOutbox() {
	// A slow delivery can outlast the minute tick; skip the run
	// instead of stacking a second drain on the same rows.
	if !s.draining.CompareAndSwap(false, true) {
		return
	}
	defer s.draining.Store(false)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	sent, err := s.dispatcher.ProcessBatch(ctx)
	if err != nil {
		s.log.Errorw("failed to drain notification outbox", "error", err)
		return
	}
	if sent > 0 {
		s.log.Infow("notifications delivered", "count", sent)
	}
}

func (s *Scheduler) housekeeping() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	purged, err := s.dispatcher.PurgeSent(ctx, sentRetention)
	if err != nil {
		s.log.Errorw("failed to purge sent notifications", "error", err)
	} else if purged > 0 {
		s.log.Infow("sent notifications purged", "count", purged)
	}

	removed, err := s.tokens.CleanupExpiredTokens(ctx)
	if err != nil {
		s.log.Errorw("failed to clean up expired tokens", "error", err)
	} else if removed > 0 {
		s.log.Infow("expired tokens removed", "count", removed)
	}
}
