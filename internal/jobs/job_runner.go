package jobs

import (
	"usethis-backend/internal/config"
	"usethis-backend/internal/logger"
	"usethis-backend/internal/repository"
	"usethis-backend/internal/service"
)

// defaultDigestWorkers bounds concurrent digest emails.
const defaultDigestWorkers = 4

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	messages repository.MessageRepository
	email    service.EmailService
	config   *config.Config
	workers  int
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(messages repository.MessageRepository, email service.EmailService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		messages: messages,
		email:    email,
		config:   cfg,
		workers:  defaultDigestWorkers,
	}
}

// Config returns the configuration the jobs were built with
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

// RunAllDailyJobs runs every daily job (for manual execution)
func (jr *JobRunner) RunAllDailyJobs() {
	jr.SendUnreadDigests()
}
