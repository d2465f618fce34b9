package jobs

import (
	"context"
	"time"

	"estimator/internal/events"
	. "estimator/internal/models"
	"estimator/internal/querykeys"
	"estimator/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

type staleEstimates interface {
	ListStale(ctx context.Context, now time.Time) ([]*Estimate, error)
	MarkExpired(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// EstimateExpiryJob moves open estimates past their validity date to expired
// and drops every cached view that could still show them open.
type EstimateExpiryJob struct {
	estimates   staleEstimates
	transaction services.Transactor
	invalidator services.Invalidator
	schedule    services.Schedule
	now         func() time.Time
	log         logger.Logger
}

func NewEstimateExpiryJob(
	estimates staleEstimates,
	transaction services.Transactor,
	invalidator services.Invalidator,
	schedule services.Schedule,
) *EstimateExpiryJob {
	log := logger.New("estimateExpiryJob")
	log.Info("Creating new estimate expiry job", "schedule", schedule)

	return &EstimateExpiryJob{
		estimates:   estimates,
		transaction: transaction,
		invalidator: invalidator,
		schedule:    schedule,
		now:         time.Now,
		log:         log,
	}
}

func (j *EstimateExpiryJob) Name() string {
	return "EstimateExpiry"
}

func (j *EstimateExpiryJob) Schedule() services.Schedule {
	return j.schedule
}

func (j *EstimateExpiryJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	var ids []uuid.UUID
	err := j.transaction.Execute(ctx, func(ctx context.Context) error {
		stale, err := j.estimates.ListStale(ctx, j.now())
		if err != nil {
			return err
		}

		ids = make([]uuid.UUID, 0, len(stale))
		for _, estimate := range stale {
			ids = append(ids, estimate.ID)
		}

		_, err = j.estimates.MarkExpired(ctx, ids)
		return err
	})
	if err != nil {
		return log.Err("failed to expire estimates", err)
	}

	if len(ids) == 0 {
		log.Info("No stale estimates")
		return nil
	}

	targets := make([]events.Target, 0, len(ids)+1)
	targets = append(targets, events.Exact(querykeys.Estimates.All()))
	for _, id := range ids {
		targets = append(targets, events.Exact(querykeys.Estimates.Detail(id.String())))
	}

	if err := j.invalidator.Invalidate(ctx, events.Invalidation{Targets: targets}); err != nil {
		log.Warn("failed to invalidate expired estimates", "error", err, "count", len(ids))
	}

	log.Info("Expired stale estimates", "count", len(ids))
	return nil
}
