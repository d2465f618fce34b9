package repositories

import (
	"context"
	"time"

	"estimator/internal/database"
	. "estimator/internal/models"
	"estimator/internal/querykeys"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*UserProfile, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
}

type userRepository struct {
	db       database.DB
	cacheTTL time.Duration
	log      logger.Logger
}

func NewUserRepository(db database.DB, cacheTTL time.Duration) UserRepository {
	return &userRepository{
		db:       db,
		cacheTTL: cacheTTL,
		log:      logger.New("userRepository"),
	}
}

// ProfileCacheKey scopes the shared profile key to one user in storage. The
// client-facing key stays querykeys.User.Profile().
func ProfileCacheKey(userID uuid.UUID) querykeys.Key {
	return querykeys.User.Profile().With(userID.String())
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	log := r.log.Function("GetByID")

	var user User
	err := readThrough(ctx, r.db.Cache.Query, ProfileCacheKey(id), r.cacheTTL, &user, log,
		func(dest *User) error {
			if err := r.db.SQLWithContext(ctx).First(dest, "id = ?", id).Error; err != nil {
				return notFound(err)
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) GetProfile(ctx context.Context, id uuid.UUID) (*UserProfile, error) {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	profile := user.ToProfile()
	return &profile, nil
}

func (r *userRepository) Create(ctx context.Context, user *User) error {
	log := r.log.Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(user).Error; err != nil {
		return log.Err("failed to create user", err)
	}

	return nil
}

func (r *userRepository) Update(ctx context.Context, user *User) error {
	log := r.log.Function("Update")

	if err := r.db.SQLWithContext(ctx).Save(user).Error; err != nil {
		return log.Err("failed to update user", err, "userID", user.ID)
	}

	return nil
}
