package jobs

import (
	"allotrack-backend/internal/config"
	"allotrack-backend/internal/logger"
	"allotrack-backend/internal/repository"
	"allotrack-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	repos      repository.Repositories
	allotments service.AllotmentService
	config     *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(repos repository.Repositories, allotments service.AllotmentService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		repos:      repos,
		allotments: allotments,
		config:     cfg,
	}
}

// Config exposes the loaded configuration to the scheduler
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
	jr.MarkOverdueAllotments()
}
