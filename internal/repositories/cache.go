package repositories

import (
	"context"
	"errors"
	"time"

	"estimator/internal/database"
	"estimator/internal/querykeys"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// readThrough serves dest from the query cache under key, falling back to load
// and caching what it returns. Cache errors are logged and never fail the read.
func readThrough[T any](
	ctx context.Context,
	cache database.CacheClient,
	key querykeys.Key,
	ttl time.Duration,
	dest *T,
	log logger.Logger,
	load func(dest *T) error,
) error {
	found, err := database.NewCacheBuilder(cache, key).WithContext(ctx).Get(dest)
	if err != nil {
		log.Warn("failed to read query cache", "key", key.String(), "error", err)
	}
	if found {
		log.Debug("query cache hit", "key", key.String())
		return nil
	}

	if err := load(dest); err != nil {
		return err
	}

	if err := database.NewCacheBuilder(cache, key).
		WithContext(ctx).
		WithStruct(dest).
		WithTTL(ttl).
		Set(); err != nil {
		log.Warn("failed to populate query cache", "key", key.String(), "error", err)
	}

	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
