package middleware

import (
	"estimator/internal/repositories"
	"estimator/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type Middleware struct {
	auth     services.TokenValidator
	userRepo repositories.UserRepository
	log      logger.Logger
}

func New(auth services.TokenValidator, repos repositories.Repository) Middleware {
	return Middleware{
		auth:     auth,
		userRepo: repos.User,
		log:      logger.New("middleware"),
	}
}
