package database

import (
	logger "github.com/Bparsons0904/goLogger"
)

// Indexes gorm tags cannot express. Each statement must be idempotent.
var ADDITIONAL_INDEXES = []string{
	"CREATE INDEX IF NOT EXISTS idx_estimates_open_valid_until ON estimates(valid_until) WHERE status IN ('draft', 'sent') AND deleted_at IS NULL",
	"CREATE INDEX IF NOT EXISTS idx_estimates_user_created_at ON estimates(user_id, created_at DESC)",
}

// CreateIndexes applies ADDITIONAL_INDEXES. A failing statement is logged and
// skipped so one bad index does not block the rest.
func (s *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")
	log.Info("Creating additional database indexes")

	failed := 0
	for _, indexSQL := range ADDITIONAL_INDEXES {
		if err := s.SQL.Exec(indexSQL).Error; err != nil {
			log.Warn("Failed to create index", "sql", indexSQL, "error", err)
			failed++
		}
	}

	log.Info("Additional database indexes created", "count", len(ADDITIONAL_INDEXES)-failed, "failed", failed)
	return nil
}
