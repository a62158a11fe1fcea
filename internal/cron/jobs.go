package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// SessionStore is the subset of the session store needed by the purge job.
// Defined here to avoid a circular dependency on the session package.
type SessionStore interface {
	PurgeExpired() int
}

// SessionPurgeJob sweeps the session store, removing records whose idle
// time exceeds the TTL. The sweep runs on the TTL period, bounding the
// staleness of unreachable expired sessions to roughly one interval;
// exact expiry is still enforced lazily on every access.
type SessionPurgeJob struct {
	Store        SessionStore
	TTL          time.Duration
	Logger       *slog.Logger
	ScheduleExpr string // empty = "@every <ttl>"
}

// Compile-time interface check.
var _ Job = (*SessionPurgeJob)(nil)

// Name implements Job.
func (j *SessionPurgeJob) Name() string {
	return "session_purge"
}

// Schedule implements Job.
func (j *SessionPurgeJob) Schedule() string {
	if j.ScheduleExpr != "" {
		return j.ScheduleExpr
	}
	return fmt.Sprintf("@every %s", j.TTL)
}

// Run sweeps expired sessions.
func (j *SessionPurgeJob) Run(ctx context.Context) error {
	if ctx.Err() != nil {
		return fmt.Errorf("cron: session purge cancelled: %w", ctx.Err())
	}
	purged := j.Store.PurgeExpired()
	if purged > 0 {
		j.Logger.Info("cron: purged expired sessions", "count", purged)
	}
	return nil
}
