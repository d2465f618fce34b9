package stageController

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

type StageController struct {
	stageRepo   repositories.StageRepository
	invalidator services.Invalidator
	log         logger.Logger
}

type StageControllerInterface interface {
	List(ctx context.Context) ([]*Stage, error)
	ListByProject(ctx context.Context, projectID string) ([]*Stage, error)
	Create(ctx context.Context, req StageRequest) (*Stage, error)
	Update(ctx context.Context, id uuid.UUID, req StageRequest) (*Stage, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

func New(
	stageRepo repositories.StageRepository,
	invalidator services.Invalidator,
) StageControllerInterface {
	return &StageController{
		stageRepo:   stageRepo,
		invalidator: invalidator,
		log:         logger.New("stageController"),
	}
}

func (sc *StageController) List(ctx context.Context) ([]*Stage, error) {
	return sc.stageRepo.List(ctx)
}

func (sc *StageController) ListByProject(ctx context.Context, projectID string) ([]*Stage, error) {
	return sc.stageRepo.ListByProject(ctx, projectID)
}

func (sc *StageController) Create(ctx context.Context, req StageRequest) (*Stage, error) {
	log := sc.log.Function("Create")

	stage := &Stage{}
	stage.Apply(req)
	if err := stage.Validate(); err != nil {
		return nil, err
	}

	if err := sc.stageRepo.Create(ctx, stage); err != nil {
		return nil, log.Err("failed to create stage", err, "projectID", stage.ProjectID)
	}

	sc.invalidate(ctx, stage.ProjectID)

	return stage, nil
}

func (sc *StageController) Update(
	ctx context.Context,
	id uuid.UUID,
	req StageRequest,
) (*Stage, error) {
	log := sc.log.Function("Update")

	stage, err := sc.stageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previousProject := stage.ProjectID
	stage.Apply(req)
	if err := stage.Validate(); err != nil {
		return nil, err
	}

	if err := sc.stageRepo.Update(ctx, stage); err != nil {
		return nil, log.Err("failed to update stage", err, "stageID", id)
	}

	sc.invalidate(ctx, previousProject, stage.ProjectID)

	return stage, nil
}

func (sc *StageController) Delete(ctx context.Context, id uuid.UUID) error {
	stage, err := sc.stageRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := sc.stageRepo.Delete(ctx, id); err != nil {
		return err
	}

	sc.invalidate(ctx, stage.ProjectID)

	return nil
}

// invalidate drops the flat stage list and the per-project lists of every
// project the write touched.
func (sc *StageController) invalidate(ctx context.Context, projectIDs ...string) {
	targets := []events.Target{events.Exact(querykeys.Stages.All())}

	seen := make(map[string]bool, len(projectIDs))
	for _, projectID := range projectIDs {
		if seen[projectID] {
			continue
		}
		seen[projectID] = true
		targets = append(targets, events.Tree(querykeys.Stages.ByProject(projectID)))
	}

	err := sc.invalidator.Invalidate(ctx, events.Invalidation{Targets: targets})
	if err != nil {
		sc.log.Function("invalidate").Warn("cache invalidation failed", "error", err)
	}
}
