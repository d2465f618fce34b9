package userController

import (
	"context"

	"estimator/internal/events"
	. "estimator/internal/models"
	"estimator/internal/querykeys"
	"estimator/internal/repositories"
	"estimator/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

type UserController struct {
	userRepo    repositories.UserRepository
	invalidator services.Invalidator
	log         logger.Logger
}

type UserControllerInterface interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserProfile, error)
	UpdateProfile(
		ctx context.Context,
		user *User,
		req UpdateProfileRequest,
	) (*UserProfile, error)
}

func New(
	userRepo repositories.UserRepository,
	invalidator services.Invalidator,
) UserControllerInterface {
	return &UserController{
		userRepo:    userRepo,
		invalidator: invalidator,
		log:         logger.New("userController"),
	}
}

func (uc *UserController) GetProfile(ctx context.Context, userID uuid.UUID) (*UserProfile, error) {
	return uc.userRepo.GetProfile(ctx, userID)
}

func (uc *UserController) UpdateProfile(
	ctx context.Context,
	user *User,
	req UpdateProfileRequest,
) (*UserProfile, error) {
	log := uc.log.Function("UpdateProfile")

	updated := *user
	updated.ApplyProfile(req)

	if err := uc.userRepo.Update(ctx, &updated); err != nil {
		return nil, log.Err("failed to update profile", err, "userID", user.ID)
	}

	err := uc.invalidator.Invalidate(ctx, events.Invalidation{
		Targets: []events.Target{events.Exact(querykeys.User.Profile())},
		UserID:  &updated.ID,
	})
	if err != nil {
		log.Warn("cache invalidation failed", "error", err, "userID", user.ID)
	}

	profile := updated.ToProfile()
	return &profile, nil
}
