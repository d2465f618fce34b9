package jobs

import (
	"estimator/config"
	"estimator/internal/repositories"
	"estimator/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	Daily  = services.Daily
	Hourly = services.Hourly
)

func RegisterAllJobs(
	schedulerService *services.SchedulerService,
	config config.Config,
	services services.Service,
	repos repositories.Repository,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")

	if !config.SchedulerEnabled {
		log.Info("Scheduler disabled, skipping job registration")
		return nil
	}

	expiryJob := NewEstimateExpiryJob(
		repos.Estimate,
		services.Transaction,
		services.CacheInvalidation,
		Hourly,
	)
	if err := schedulerService.AddJob(expiryJob); err != nil {
		return log.Err("failed to register estimate expiry job", err)
	}
	log.Info("Registered estimate expiry job", "schedule", "hourly")

	return nil
}
