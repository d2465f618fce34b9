package controllers

import (
	"estimator/internal/repositories"
	"estimator/internal/services"

	estimateController "estimator/internal/controllers/estimates"
	stageController "estimator/internal/controllers/stages"
	userController "estimator/internal/controllers/users"
)

type Controllers struct {
	User     userController.UserControllerInterface
	Estimate estimateController.EstimateControllerInterface
	Stage    stageController.StageControllerInterface
}

func New(services services.Service, repos repositories.Repository) Controllers {
	return Controllers{
		User:     userController.New(repos.User, services.CacheInvalidation),
		Estimate: estimateController.New(
			repos.Estimate,
			services.Transaction,
			services.CacheInvalidation,
		),
		Stage:    stageController.New(repos.Stage, services.CacheInvalidation),
	}
}
