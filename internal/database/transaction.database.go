package database

import (
	"context"

	"gorm.io/gorm"
)

type contextKey string

const TRANSACTION_KEY contextKey = "transaction"

func GetTransaction(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(TRANSACTION_KEY).(*gorm.DB)
	return tx, ok
}

// WithTransaction makes every SQLWithContext call made with the returned
// context run inside tx.
func WithTransaction(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, TRANSACTION_KEY, tx)
}
