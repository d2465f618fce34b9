package services

import (
	"context"
	"errors"

	"estimator/internal/database"
	"estimator/internal/events"
	"estimator/internal/querykeys"

	logger "github.com/Bparsons0904/goLogger"
)

type InvalidationPublisher interface {
	PublishInvalidation(invalidation events.Invalidation) error
}

type Invalidator interface {
	Invalidate(ctx context.Context, invalidation events.Invalidation) error
}

type CacheInvalidationService struct {
	cache     database.CacheClient
	publisher InvalidationPublisher
	log       logger.Logger
}

func NewCacheInvalidationService(
	cache database.CacheClient,
	publisher InvalidationPublisher,
) *CacheInvalidationService {
	return &CacheInvalidationService{
		cache:     cache,
		publisher: publisher,
		log:       logger.New("CacheInvalidationService"),
	}
}

// Invalidate evicts every target from the query cache, then tells connected
// clients which keys went stale. Exact targets share a single DEL; tree targets
// each scan the keyspace. Keys scoped to a user are evicted under that user's
// storage key. An eviction failure does not stop the broadcast.
func (s *CacheInvalidationService) Invalidate(
	ctx context.Context,
	invalidation events.Invalidation,
) error {
	log := s.log.Function("Invalidate")

	if len(invalidation.Targets) == 0 {
		return nil
	}

	var errs []error
	var exact []string
	for _, target := range invalidation.Targets {
		key := s.storageKey(target.Key, invalidation)
		if target.Exact {
			exact = append(exact, key.String())
			continue
		}

		deleted, err := database.NewCacheBuilder(s.cache, key).WithContext(ctx).DeleteTree()
		if err != nil {
			log.Warn("failed to evict cache tree", "key", key.String(), "error", err)
			errs = append(errs, err)
			continue
		}
		log.Debug("evicted cache tree", "key", key.String(), "deleted", deleted)
	}

	if len(exact) > 0 {
		err := database.NewCacheBuilder(s.cache, exact[0]).
			WithContext(ctx).
			WithKeys(exact[1:]...).
			Delete()
		if err != nil {
			log.Warn("failed to evict cache entries", "keys", exact, "error", err)
			errs = append(errs, err)
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishInvalidation(invalidation); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (s *CacheInvalidationService) storageKey(
	key querykeys.Key,
	invalidation events.Invalidation,
) querykeys.Key {
	if invalidation.UserID == nil {
		return key
	}
	return key.With(invalidation.UserID.String())
}
