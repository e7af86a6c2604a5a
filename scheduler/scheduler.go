// Package scheduler runs the periodic maintenance jobs of the portal.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"anime-news/config"
)

// Cleaner removes expired per-visitor dedup timestamps.
type Cleaner interface {
	CleanupAll(ctx context.Context) (visitors, removed int, err error)
}

// Scheduler runs cleanup on a cron schedule. Runs never overlap.
type Scheduler struct {
	cron    *cron.Cron
	cleaner Cleaner
	timeout time.Duration

	mu      sync.Mutex
	running bool
	entryID cron.EntryID
}

// New builds a scheduler in loc. A nil loc means UTC; a timeout <= 0 means no deadline.
func New(cleaner Cleaner, loc *time.Location, timeout time.Duration) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		cleaner: cleaner,
		timeout: timeout,
	}
}

// Schedule registers the cleanup job with a standard 5-field cron expression,
// replacing any previous registration.
func (s *Scheduler) Schedule(expr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entryID != 0 {
		s.cron.Remove(s.entryID)
		s.entryID = 0
	}
	id, err := s.cron.AddFunc(expr, func() { s.RunOnce(context.Background()) })
	if err != nil {
		return fmt.Errorf("scheduler: invalid cleanup schedule %q: %w", expr, err)
	}
	s.entryID = id
	config.Logger.Infof("scheduler: cleanup scheduled cron=%q", expr)
	return nil
}

// Next returns the next activation time, zero when nothing is scheduled.
func (s *Scheduler) Next() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entryID == 0 {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts the cron loop and waits for a running job to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// RunOnce runs one cleanup pass. It reports false when a pass was already running.
func (s *Scheduler) RunOnce(ctx context.Context) bool {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		config.Logger.Warn("scheduler: cleanup still running, skipping")
		return false
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	visitors, removed, err := s.cleaner.CleanupAll(ctx)
	fields := config.Fields{
		"job":         "cleanup",
		"visitors":    visitors,
		"removed":     removed,
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if err != nil {
		fields["error"] = err.Error()
		config.ErrorWithFields("cleanup failed", fields)
		return true
	}
	config.InfoWithFields("cleanup finished", fields)
	return true
}
