package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"equishare-gateway/internal/backend"
	"equishare-gateway/internal/config"
	"equishare-gateway/internal/jobs"
	"equishare-gateway/internal/security"
	"equishare-gateway/internal/session"
)

func testJobRunner() *jobs.JobRunner {
	cfg := &config.Config{}
	cfg.Scheduler.SweepExpiredSessions = "0 */5 * * * *"
	cfg.Scheduler.RevalidateSessions = "0 0 * * * *"

	client := backend.NewClient("http://localhost:8000", time.Second)
	tokens := security.NewTokenManager("scheduler-test-secret-0123456789abc")
	sessions := session.NewManager(client, tokens, time.Hour)
	return jobs.NewJobRunner(sessions, cfg)
}

func TestSchedulerRegistersJobs(t *testing.T) {
	s := NewScheduler(testJobRunner())
	assert.True(t, s.IsRunning(), "expected both jobs registered")
}

func TestSchedulerStartStop(t *testing.T) {
	s := NewScheduler(testJobRunner())
	s.Start()
	s.Stop()
}

func TestSchedulerRejectsBadSchedule(t *testing.T) {
	cfg := &config.Config{}
	cfg.Scheduler.SweepExpiredSessions = "not a schedule"
	cfg.Scheduler.RevalidateSessions = "0 0 * * * *"

	client := backend.NewClient("http://localhost:8000", time.Second)
	tokens := security.NewTokenManager("scheduler-test-secret-0123456789abc")
	sessions := session.NewManager(client, tokens, time.Hour)

	s := NewScheduler(jobs.NewJobRunner(sessions, cfg))
	// The bad entry is skipped; the valid one still registers.
	assert.True(t, s.IsRunning())
}
