package repositories

import (
	"testing"

	"estimator/internal/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/valkey-io/valkey-go/mock"
	"go.uber.org/mock/gomock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) (database.DB, sqlmock.Sqlmock, *mock.Client) {
	t.Helper()

	sqlDB, sqlMock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sqlDB,
	}), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("failed to open gorm db: %v", err)
	}

	ctrl := gomock.NewController(t)
	cache := mock.NewClient(ctrl)

	return database.DB{SQL: gormDB, Cache: database.Cache{Query: cache}}, sqlMock, cache
}
