package repositories

import (
	"context"
	"time"

	"estimator/internal/database"
	. "estimator/internal/models"
	"estimator/internal/querykeys"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

type EstimateRepository interface {
	List(ctx context.Context) ([]*Estimate, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Estimate, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*Estimate, error)
	Create(ctx context.Context, estimate *Estimate) error
	Update(ctx context.Context, estimate *Estimate) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListStale(ctx context.Context, now time.Time) ([]*Estimate, error)
	MarkExpired(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type estimateRepository struct {
	db       database.DB
	cacheTTL time.Duration
	log      logger.Logger
}

func NewEstimateRepository(db database.DB, cacheTTL time.Duration) EstimateRepository {
	return &estimateRepository{
		db:       db,
		cacheTTL: cacheTTL,
		log:      logger.New("estimateRepository"),
	}
}

func (r *estimateRepository) List(ctx context.Context) ([]*Estimate, error) {
	log := r.log.Function("List")

	var estimates []*Estimate
	err := readThrough(ctx, r.db.Cache.Query, querykeys.Estimates.All(), r.cacheTTL, &estimates, log,
		func(dest *[]*Estimate) error {
			if err := r.db.SQLWithContext(ctx).
				Order("created_at DESC").
				Find(dest).Error; err != nil {
				return log.Err("failed to list estimates", err)
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	return estimates, nil
}

func (r *estimateRepository) GetByID(ctx context.Context, id uuid.UUID) (*Estimate, error) {
	log := r.log.Function("GetByID")

	var estimate Estimate
	key := querykeys.Estimates.Detail(id.String())
	err := readThrough(ctx, r.db.Cache.Query, key, r.cacheTTL, &estimate, log,
		func(dest *Estimate) error {
			if err := r.db.SQLWithContext(ctx).First(dest, "id = ?", id).Error; err != nil {
				return notFound(err)
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	return &estimate, nil
}

// GetForUpdate reads the row from the database, never the cache, and locks it
// for the rest of the surrounding transaction.
func (r *estimateRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*Estimate, error) {
	var estimate Estimate
	if err := r.db.SQLWithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&estimate, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}

	return &estimate, nil
}

func (r *estimateRepository) Create(ctx context.Context, estimate *Estimate) error {
	log := r.log.Function("Create")

	if err := r.db.SQLWithContext(ctx).Create(estimate).Error; err != nil {
		return log.Err("failed to create estimate", err, "projectID", estimate.ProjectID)
	}

	return nil
}

func (r *estimateRepository) Update(ctx context.Context, estimate *Estimate) error {
	log := r.log.Function("Update")

	if err := r.db.SQLWithContext(ctx).Save(estimate).Error; err != nil {
		return log.Err("failed to update estimate", err, "estimateID", estimate.ID)
	}

	return nil
}

func (r *estimateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	log := r.log.Function("Delete")

	result := r.db.SQLWithContext(ctx).Delete(&Estimate{}, "id = ?", id)
	if result.Error != nil {
		return log.Err("failed to delete estimate", result.Error, "estimateID", id)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// ListStale bypasses the cache; the expiry job needs the database view.
func (r *estimateRepository) ListStale(ctx context.Context, now time.Time) ([]*Estimate, error) {
	log := r.log.Function("ListStale")

	var estimates []*Estimate
	if err := r.db.SQLWithContext(ctx).
		Where("valid_until IS NOT NULL AND valid_until < ?", now).
		Where("status IN ?", []EstimateStatus{EstimateStatusDraft, EstimateStatusSent}).
		Find(&estimates).Error; err != nil {
		return nil, log.Err("failed to list stale estimates", err)
	}

	return estimates, nil
}

func (r *estimateRepository) MarkExpired(ctx context.Context, ids []uuid.UUID) (int64, error) {
	log := r.log.Function("MarkExpired")

	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.SQLWithContext(ctx).
		Model(&Estimate{}).
		Where("id IN ?", ids).
		Update("status", EstimateStatusExpired)
	if result.Error != nil {
		return 0, log.Err("failed to mark estimates expired", result.Error, "count", len(ids))
	}

	return result.RowsAffected, nil
}
