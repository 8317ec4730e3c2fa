// Package scheduler runs periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fintrack/fintrack/internal/metrics"
	"github.com/robfig/cron/v3"
)

// AuditPurger deletes audit entries older than a cutoff.
type AuditPurger interface {
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Scheduler wraps a cron runner. Jobs run one at a time; a run that is still
// going when the next tick arrives causes that tick to be skipped.
type Scheduler struct {
	c   *cron.Cron
	now func() time.Time
}

// New returns a stopped Scheduler.
func New() *Scheduler {
	return &Scheduler{
		c:   cron.New(cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger))),
		now: time.Now,
	}
}

// AddAuditPurge registers a job that removes audit entries older than retention
// on spec (standard cron syntax or descriptors such as @daily).
func (s *Scheduler) AddAuditPurge(spec string, retention time.Duration, purger AuditPurger) error {
	if retention <= 0 {
		return fmt.Errorf("audit retention must be positive, got %s", retention)
	}
	_, err := s.c.AddFunc(spec, func() {
		s.purgeAudit(context.Background(), retention, purger)
	})
	if err != nil {
		return fmt.Errorf("schedule audit purge %q: %w", spec, err)
	}
	slog.Info("scheduler: audit purge scheduled", "spec", spec, "retention", retention.String())
	return nil
}

func (s *Scheduler) purgeAudit(ctx context.Context, retention time.Duration, purger AuditPurger) {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	cutoff := s.now().Add(-retention)
	n, err := purger.PurgeBefore(ctx, cutoff)
	if err != nil {
		slog.Error("scheduler: audit purge failed", "error", err)
		return
	}
	metrics.AddAuditPurged(n)
	slog.Info("scheduler: audit purge done", "removed", n, "cutoff", cutoff.UTC().Format(time.RFC3339))
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.c.Start()
}

// Stop stops scheduling new runs and returns a context that is done once
// running jobs have finished.
func (s *Scheduler) Stop() context.Context {
	return s.c.Stop()
}
