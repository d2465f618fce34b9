package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"estimator/internal/querykeys"

	"github.com/google/uuid"
	"github.com/valkey-io/valkey-go"
)

const (
	DefaultCacheTTL     = 1 * time.Hour
	defaultCacheTimeout = 5 * time.Second
	scanBatchSize       = 200
)

type KeyType interface {
	string | querykeys.Key | uuid.UUID
}

type CacheBuilder struct {
	cache      valkey.Client
	key        string
	keys       []string
	pattern    string
	value      string
	ttl        time.Duration
	ctx        context.Context
	ctxTimeout time.Duration
	err        error
}

// NewCacheBuilder stores query keys in their joined form, so an entry cached
// under querykeys.Estimates.Detail("42") lives at "estimates:42".
func NewCacheBuilder[K KeyType](cache valkey.Client, key K) *CacheBuilder {
	cacheBuilder := CacheBuilder{
		cache:      cache,
		ttl:        DefaultCacheTTL,
		ctxTimeout: defaultCacheTimeout,
		ctx:        context.Background(),
	}

	switch k := any(key).(type) {
	case string:
		cacheBuilder.key = k
	case uuid.UUID:
		cacheBuilder.key = k.String()
	case querykeys.Key:
		cacheBuilder.key = k.String()
		cacheBuilder.pattern = k.Pattern()
	}

	return &cacheBuilder
}

// WithKeys adds keys that Delete removes in the same DEL as the builder's key.
func (cb *CacheBuilder) WithKeys(keys ...string) *CacheBuilder {
	cb.keys = append(cb.keys, keys...)
	return cb
}

func (cb *CacheBuilder) WithValue(value string) *CacheBuilder {
	cb.value = value
	return cb
}

func (cb *CacheBuilder) WithStruct(value any) *CacheBuilder {
	bytes, err := json.Marshal(value)
	if err != nil {
		cb.err = fmt.Errorf("failed to marshal value to json: %w", err)
		return cb
	}

	cb.value = string(bytes)
	return cb
}

func (cb *CacheBuilder) WithTTL(ttl time.Duration) *CacheBuilder {
	if ttl > 0 {
		cb.ttl = ttl
	}
	return cb
}

func (cb *CacheBuilder) WithContext(ctx context.Context) *CacheBuilder {
	cb.ctx = ctx
	return cb
}

func (cb *CacheBuilder) WithTimeout(timeout time.Duration) *CacheBuilder {
	cb.ctxTimeout = timeout
	return cb
}

func (cb *CacheBuilder) Key() string {
	return cb.key
}

func (cb *CacheBuilder) Set() error {
	if cb.err != nil {
		return cb.err
	}

	if cb.key == "" {
		return fmt.Errorf("key is required")
	}

	if cb.value == "" {
		return fmt.Errorf("value is required")
	}

	ctx, cancel := cb.createTimeoutContext()
	defer cancel()

	return cb.cache.Do(ctx, cb.cache.B().Set().Key(cb.key).Value(cb.value).Ex(cb.ttl).Build()).
		Error()
}

// Get decodes the cached JSON into result. A miss is (false, nil).
func (cb *CacheBuilder) Get(result any) (bool, error) {
	if cb.err != nil {
		return false, cb.err
	}

	if cb.key == "" {
		return false, fmt.Errorf("key is required")
	}

	ctx, cancel := cb.createTimeoutContext()
	defer cancel()

	data, err := cb.cache.Do(ctx, cb.cache.B().Get().Key(cb.key).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return false, nil
		}
		return false, err
	}

	if data == "" {
		return false, nil
	}

	if err := json.Unmarshal([]byte(data), result); err != nil {
		return false, err
	}

	return true, nil
}

func (cb *CacheBuilder) Delete() error {
	if cb.err != nil {
		return cb.err
	}

	ctx, cancel := cb.createTimeoutContext()
	defer cancel()

	keys := append([]string{cb.key}, cb.keys...)
	return cb.cache.Do(ctx, cb.cache.B().Del().Key(keys...).Build()).Error()
}

// DeleteTree removes the entry stored at the key and every entry stored under
// a key it prefixes. Only keys built from a querykeys.Key have a tree.
func (cb *CacheBuilder) DeleteTree() (int64, error) {
	if cb.err != nil {
		return 0, cb.err
	}

	if cb.pattern == "" {
		return 0, fmt.Errorf("prefix deletion requires a query key")
	}

	ctx, cancel := cb.createTimeoutContext()
	defer cancel()

	deleted, err := cb.cache.Do(ctx, cb.cache.B().Del().Key(cb.key).Build()).AsInt64()
	if err != nil {
		return 0, err
	}

	var cursor uint64
	for {
		entry, err := cb.cache.Do(
			ctx,
			cb.cache.B().Scan().Cursor(cursor).Match(cb.pattern).Count(scanBatchSize).Build(),
		).AsScanEntry()
		if err != nil {
			return deleted, err
		}

		if len(entry.Elements) > 0 {
			n, err := cb.cache.Do(ctx, cb.cache.B().Del().Key(entry.Elements...).Build()).AsInt64()
			if err != nil {
				return deleted, err
			}
			deleted += n
		}

		cursor = entry.Cursor
		if cursor == 0 {
			return deleted, nil
		}
	}
}

func (cb *CacheBuilder) createTimeoutContext() (context.Context, context.CancelFunc) {
	if deadline, ok := cb.ctx.Deadline(); ok {
		if time.Until(deadline) < cb.ctxTimeout {
			return context.WithCancel(cb.ctx)
		}
	}
	return context.WithTimeout(cb.ctx, cb.ctxTimeout)
}
