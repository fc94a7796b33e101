package jobs

import (
	"context"
	"time"

	"equishare-gateway/internal/config"
	"equishare-gateway/internal/logger"
	"equishare-gateway/internal/session"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	sessions *session.Manager
	config   *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(sessions *session.Manager, cfg *config.Config) *JobRunner {
	return &JobRunner{
		sessions: sessions,
		config:   cfg,
	}
}

// Config exposes the configuration to the scheduler
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// SweepExpiredSessions drops sessions past their TTL
func (jr *JobRunner) SweepExpiredSessions() {
	jr.runWithRecovery("SweepExpiredSessions", func() {
		removed := jr.sessions.SweepExpired()
		logger.Info("Swept expired sessions", "removed", removed, "live", jr.sessions.Count())
	})
}

// RevalidateSessions re-checks live sessions against the backend identity
// endpoint; sessions the backend no longer recognizes are dropped
func (jr *JobRunner) RevalidateSessions() {
	jr.runWithRecovery("RevalidateSessions", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		jr.sessions.RevalidateAll(ctx)
		logger.Info("Revalidated sessions", "live", jr.sessions.Count())
	})
}
