package repositories

import (
	"context"
	"testing"
	"time"

	. "estimator/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go/mock"
	"go.uber.org/mock/gomock"
)

func TestEstimateRepository_GetByID_CacheHit(t *testing.T) {
	db, sqlMock, cache := setupTestDB(t)
	repo := NewEstimateRepository(db, time.Hour)

	id := uuid.New()
	cached := `{"id":"` + id.String() + `","projectId":"proj-7","title":"Deck","status":"sent","lineItems":[],"total":"1200.50"}`

	cache.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "estimates:"+id.String())).
		Return(mock.Result(mock.ValkeyString(cached)))

	estimate, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, id, estimate.ID)
	assert.Equal(t, "Deck", estimate.Title)
	assert.Equal(t, EstimateStatusSent, estimate.Status)
	assert.True(t, decimal.RequireFromString("1200.50").Equal(estimate.Total))
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestEstimateRepository_GetByID_CacheMissLoadsAndPopulates(t *testing.T) {
	db, sqlMock, cache := setupTestDB(t)
	repo := NewEstimateRepository(db, time.Hour)

	id := uuid.New()
	key := "estimates:" + id.String()

	gomock.InOrder(
		cache.EXPECT().
			Do(gomock.Any(), mock.Match("GET", key)).
			Return(mock.Result(mock.ValkeyNil())),
		cache.EXPECT().
			Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
				return len(cmd) > 2 && cmd[0] == "SET" && cmd[1] == key
			})).
			Return(mock.Result(mock.ValkeyString("OK"))),
	)

	rows := sqlmock.NewRows([]string{"id", "project_id", "title", "status", "line_items", "total"}).
		AddRow(id.String(), "proj-7", "Deck", "draft", `[]`, "0")
	sqlMock.ExpectQuery(`SELECT \* FROM "estimates"`).WillReturnRows(rows)

	estimate, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, "proj-7", estimate.ProjectID)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestEstimateRepository_GetByID_NotFound(t *testing.T) {
	db, sqlMock, cache := setupTestDB(t)
	repo := NewEstimateRepository(db, time.Hour)

	id := uuid.New()
	cache.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "estimates:"+id.String())).
		Return(mock.Result(mock.ValkeyNil()))
	sqlMock.ExpectQuery(`SELECT \* FROM "estimates"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestEstimateRepository_List_UsesCollectionKey(t *testing.T) {
	db, sqlMock, cache := setupTestDB(t)
	repo := NewEstimateRepository(db, time.Hour)

	cache.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "estimates")).
		Return(mock.Result(mock.ValkeyString(`[{"title":"A"},{"title":"B"}]`)))

	estimates, err := repo.List(context.Background())
	require.NoError(t, err)

	require.Len(t, estimates, 2)
	assert.Equal(t, "B", estimates[1].Title)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestEstimateRepository_CacheErrorFallsBackToDatabase(t *testing.T) {
	db, sqlMock, cache := setupTestDB(t)
	repo := NewEstimateRepository(db, time.Hour)

	cache.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "estimates")).
		Return(mock.ErrorResult(assert.AnError))
	cache.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.ErrorResult(assert.AnError))

	sqlMock.ExpectQuery(`SELECT \* FROM "estimates"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).AddRow(uuid.New().String(), "A"))

	estimates, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, estimates, 1)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestEstimateRepository_MarkExpired_Empty(t *testing.T) {
	db, sqlMock, _ := setupTestDB(t)
	repo := NewEstimateRepository(db, time.Hour)

	n, err := repo.MarkExpired(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestEstimateRepository_GetForUpdate_SkipsCache(t *testing.T) {
	db, sqlMock, _ := setupTestDB(t)
	repo := NewEstimateRepository(db, time.Hour)

	id := uuid.New()
	owner := uuid.New()
	rows := sqlmock.NewRows([]string{"id", "user_id", "project_id", "title", "status", "line_items", "total"}).
		AddRow(id.String(), owner.String(), "proj-7", "Deck", "expired", `[]`, "0")
	sqlMock.ExpectQuery(`SELECT \* FROM "estimates" .*FOR UPDATE`).WillReturnRows(rows)

	estimate, err := repo.GetForUpdate(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, owner, estimate.UserID)
	assert.Equal(t, EstimateStatusExpired, estimate.Status)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestEstimateRepository_GetForUpdate_NotFound(t *testing.T) {
	db, sqlMock, _ := setupTestDB(t)
	repo := NewEstimateRepository(db, time.Hour)

	sqlMock.ExpectQuery(`SELECT \* FROM "estimates" .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetForUpdate(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
