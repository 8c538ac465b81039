package jobs

import (
	"erp-subscription-backend/internal/config"
	"erp-subscription-backend/internal/logger"
	"erp-subscription-backend/internal/repository"
	"erp-subscription-backend/internal/service"
)

// JobRunner coordinates the scheduled subscription lifecycle jobs
type JobRunner struct {
	orgRepo  repository.OrganizationRepository
	userRepo repository.UserRepository
	email    service.EmailService
	config   *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(orgRepo repository.OrganizationRepository, userRepo repository.UserRepository, email service.EmailService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		orgRepo:  orgRepo,
		userRepo: userRepo,
		email:    email,
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

// RunAllNightlyJobs runs all nightly jobs (for manual execution)
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.MarkPastDueSubscriptions()
	jr.ExpirePastDueSubscriptions()
	jr.SendPaymentReminders()
}
