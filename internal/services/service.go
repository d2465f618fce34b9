package services

import (
	"estimator/config"
	"estimator/internal/database"
	"estimator/internal/events"
)

type Service struct {
	Auth              *AuthService
	Transaction       *TransactionService
	Scheduler         *SchedulerService
	CacheInvalidation *CacheInvalidationService
}

func New(db database.DB, config config.Config, eventBus *events.EventBus) (Service, error) {
	authService, err := NewAuthService(config)
	if err != nil {
		return Service{}, err
	}

	return Service{
		Auth:              authService,
		Transaction:       NewTransactionService(db),
		Scheduler:         NewSchedulerService(),
		CacheInvalidation: NewCacheInvalidationService(db.Cache.Query, eventBus),
	}, nil
}
