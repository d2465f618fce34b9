package estimateController

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

type EstimateController struct {
	estimateRepo repositories.EstimateRepository
	transactor   services.Transactor
	invalidator  services.Invalidator
	log          logger.Logger
}

type EstimateControllerInterface interface {
	List(ctx context.Context) ([]*Estimate, error)
	Get(ctx context.Context, id uuid.UUID) (*Estimate, error)
	Create(ctx context.Context, user *User, req EstimateRequest) (*Estimate, error)
	Update(ctx context.Context, user *User, id uuid.UUID, req EstimateRequest) (*Estimate, error)
	Delete(ctx context.Context, user *User, id uuid.UUID) error
}

func New(
	estimateRepo repositories.EstimateRepository,
	transactor services.Transactor,
	invalidator services.Invalidator,
) EstimateControllerInterface {
	return &EstimateController{
		estimateRepo: estimateRepo,
		transactor:   transactor,
		invalidator:  invalidator,
		log:          logger.New("estimateController"),
	}
}

func (ec *EstimateController) List(ctx context.Context) ([]*Estimate, error) {
	return ec.estimateRepo.List(ctx)
}

func (ec *EstimateController) Get(ctx context.Context, id uuid.UUID) (*Estimate, error) {
	return ec.estimateRepo.GetByID(ctx, id)
}

func (ec *EstimateController) Create(
	ctx context.Context,
	user *User,
	req EstimateRequest,
) (*Estimate, error) {
	log := ec.log.Function("Create")

	estimate := &Estimate{UserID: user.ID}
	estimate.Apply(req)
	if err := estimate.Validate(); err != nil {
		return nil, err
	}

	if err := ec.estimateRepo.Create(ctx, estimate); err != nil {
		return nil, log.Err("failed to create estimate", err, "userID", user.ID)
	}

	// A new estimate has no cached detail yet; only the list is stale.
	ec.invalidate(ctx, events.Exact(querykeys.Estimates.All()))

	return estimate, nil
}

// Update rewrites an estimate owned by user. The row is read and locked inside
// the write transaction so a stale cache entry is never saved back.
func (ec *EstimateController) Update(
	ctx context.Context,
	user *User,
	id uuid.UUID,
	req EstimateRequest,
) (*Estimate, error) {
	log := ec.log.Function("Update")

	var estimate *Estimate
	err := ec.transactor.Execute(ctx, func(ctx context.Context) error {
		var err error
		estimate, err = ec.ownedForUpdate(ctx, user, id)
		if err != nil {
			return err
		}

		estimate.Apply(req)
		if err := estimate.Validate(); err != nil {
			return err
		}

		if err := ec.estimateRepo.Update(ctx, estimate); err != nil {
			return log.Err("failed to update estimate", err, "estimateID", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ec.invalidate(ctx, ec.writeTargets(id)...)

	return estimate, nil
}

func (ec *EstimateController) Delete(ctx context.Context, user *User, id uuid.UUID) error {
	err := ec.transactor.Execute(ctx, func(ctx context.Context) error {
		if _, err := ec.ownedForUpdate(ctx, user, id); err != nil {
			return err
		}
		return ec.estimateRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	ec.invalidate(ctx, ec.writeTargets(id)...)

	return nil
}

func (ec *EstimateController) ownedForUpdate(
	ctx context.Context,
	user *User,
	id uuid.UUID,
) (*Estimate, error) {
	estimate, err := ec.estimateRepo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}

	if user == nil || estimate.UserID != user.ID {
		ec.log.Function("ownedForUpdate").Warn("estimate write by non-owner", "estimateID", id)
		return nil, ErrForbidden
	}

	return estimate, nil
}

func (ec *EstimateController) writeTargets(id uuid.UUID) []events.Target {
	return []events.Target{
		events.Exact(querykeys.Estimates.All()),
		events.Exact(querykeys.Estimates.Detail(id.String())),
	}
}

// invalidate runs after the write has landed, so a failure is logged rather
// than reported to the caller.
func (ec *EstimateController) invalidate(ctx context.Context, targets ...events.Target) {
	err := ec.invalidator.Invalidate(ctx, events.Invalidation{Targets: targets})
	if err != nil {
		ec.log.Function("invalidate").Warn("cache invalidation failed", "error", err)
	}
}
