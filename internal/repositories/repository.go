package repositories

import (
	"errors"
	"time"

	"estimator/internal/database"
)

var ErrNotFound = errors.New("record not found")

type Repository struct {
	User     UserRepository
	Estimate EstimateRepository
	Stage    StageRepository
}

func New(db database.DB, cacheTTL time.Duration) Repository {
	return Repository{
		User:     NewUserRepository(db, cacheTTL),
		Estimate: NewEstimateRepository(db, cacheTTL),
		Stage:    NewStageRepository(db, cacheTTL),
	}
}
