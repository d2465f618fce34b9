package database

import (
	"context"
	"fmt"
	"time"

	"estimator/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/valkey-io/valkey-go"
)

// Valkey database index organization
const (
	// QUERY_CACHE_INDEX (DB 0) holds read-through entries stored under querykeys.
	QUERY_CACHE_INDEX = iota

	// EVENTS_CACHE_INDEX (DB 1) carries pub/sub traffic.
	EVENTS_CACHE_INDEX
)

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")
	log.Info("initializing cache database")

	if config.DatabaseCacheAddress == "" || config.DatabaseCachePort == 0 {
		return log.Errorf("failed to initialize cache database", "address or port is empty")
	}
	address := fmt.Sprintf("%s:%d", config.DatabaseCacheAddress, config.DatabaseCachePort)

	var cacheDB Cache
	var err error

	if cacheDB.Query, err = newCacheClient(address, QUERY_CACHE_INDEX); err != nil {
		return log.Err("failed to create query valkey client", err)
	}

	if cacheDB.Events, err = newCacheClient(address, EVENTS_CACHE_INDEX); err != nil {
		return log.Err("failed to create events valkey client", err)
	}

	s.Cache = cacheDB

	if config.DatabaseCacheReset != -1 {
		go clearCacheDB(config.DatabaseCacheReset, cacheDB)
	}

	return nil
}

func newCacheClient(address string, index int) (valkey.Client, error) {
	return valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{address},
		SelectDB:    index,
	})
}

func clearCacheDB(index int, cacheDB Cache) {
	log := logger.New("database").Function("clearCacheDB")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var client CacheClient
	var dbName string

	switch index {
	case QUERY_CACHE_INDEX:
		client, dbName = cacheDB.Query, "Query"
	case EVENTS_CACHE_INDEX:
		client, dbName = cacheDB.Events, "Events"
	default:
		log.Warn("Invalid cache database index", "index", index)
		return
	}

	if err := client.Do(ctx, client.B().Flushdb().Build()).Error(); err != nil {
		log.Er("Failed to clear cache database", err, "index", index, "dbName", dbName)
		return
	}

	log.Info("Successfully cleared cache database", "index", index, "dbName", dbName)
}
