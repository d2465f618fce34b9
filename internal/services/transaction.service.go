package services

import (
	"context"
	"fmt"

	"estimator/internal/database"

	logger "github.com/Bparsons0904/goLogger"
)

type Transactor interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}

type TransactionService struct {
	db  database.DB
	log logger.Logger
}

func NewTransactionService(db database.DB) *TransactionService {
	return &TransactionService{
		db:  db,
		log: logger.New("TransactionService"),
	}
}

// Execute runs fn inside a database transaction carried on the context, so
// repositories called with that context join it. A returned error or a panic
// rolls back; a failed rollback after a panic re-panics.
func (ts *TransactionService) Execute(
	ctx context.Context,
	fn func(ctx context.Context) error,
) (err error) {
	log := ts.log.Function("Execute")

	tx := ts.db.SQLWithContext(ctx).Begin()
	if tx.Error != nil {
		return log.Err("failed to begin transaction", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			panicErr := log.ErrMsg(fmt.Sprintf("panic during transaction: %v", r))

			if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
				log.Er("CRITICAL: failed to rollback after panic", rollbackErr, "panic", r)
				panic(fmt.Sprintf(
					"transaction rollback failed: %v (original panic: %v)",
					rollbackErr,
					r,
				))
			}

			err = panicErr
		}
	}()

	if err = fn(database.WithTransaction(ctx, tx)); err != nil {
		if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
			log.Er("failed to rollback after function error", rollbackErr, "originalError", err)
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return log.Err("failed to commit transaction", err)
	}

	return nil
}
