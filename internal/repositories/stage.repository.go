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

type StageRepository interface {
	List(ctx context.Context) ([]*Stage, error)
	ListByProject(ctx context.Context, projectID string) ([]*Stage, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Stage, error)
	Create(ctx context.Context, stage *Stage) error
	Update(ctx context.Context, stage *Stage) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type stageRepository struct {
	db       database.DB
	cacheTTL time.Duration
	log      logger.Logger
}

func NewStageRepository(db database.DB, cacheTTL time.Duration) StageRepository {
	return &stageRepository{
		db:       db,
		cacheTTL: cacheTTL,
		log:      logger.New("stageRepository"),
	}
}

func (r *stageRepository) List(ctx context.Context) ([]*Stage, error) {
	log := r.log.Function("List")

	var stages []*Stage
	err := readThrough(ctx, r.db.Cache.Query, querykeys.Stages.All(), r.cacheTTL, &stages, log,
		func(dest *[]*Stage) error {
			if err := r.db.SQLWithContext(ctx).
				Order("project_id ASC, position ASC").
				Find(dest).Error; err != nil {
				return log.Err("failed to list stages", err)
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	return stages, nil
}

func (r *stageRepository) ListByProject(ctx context.Context, projectID string) ([]*Stage, error) {
	log := r.log.Function("ListByProject")

	var stages []*Stage
	key := querykeys.Stages.ByProject(projectID)
	err := readThrough(ctx, r.db.Cache.Query, key, r.cacheTTL, &stages, log,
		func(dest *[]*Stage) error {
			if err := r.db.SQLWithContext(ctx).
				Where("project_id = ?", projectID).
				Order("position ASC").
				Find(dest).Error; err != nil {
				return log.Err("failed to list project stages", err, "projectID", projectID)
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	return stages, nil
}

// GetByID is uncached: single stages are only read on the write path.
func (r *stageRepository) GetByID(ctx context.Context, id uuid.UUID) (*Stage, error) {
	var stage Stage
	if err := r.db.SQLWithContext(ctx).First(&stage, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &stage, nil
}

func (r *stageRepository) Create(ctx context.Context, stage *Stage) error {
	log := r.log.Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(stage).Error; err != nil {
		return log.Err("failed to create stage", err, "projectID", stage.ProjectID)
	}

	return nil
}

func (r *stageRepository) Update(ctx context.Context, stage *Stage) error {
	log := r.log.Function("Update")

	if err := r.db.SQLWithContext(ctx).Save(stage).Error; err != nil {
		return log.Err("failed to update stage", err, "stageID", stage.ID)
	}

	return nil
}

func (r *stageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("Delete")

	result := r.db.SQLWithContext(ctx).Delete(&Stage{}, "id = ?", id)
	if result.Error != nil {
		return log.Err("failed to delete stage", result.Error, "stageID", id)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
