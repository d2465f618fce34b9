package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valkey-io/valkey-go/mock"
	"go.uber.org/mock/gomock"
)

func TestStageRepository_ListByProject_UsesProjectKey(t *testing.T) {
	db, sqlMock, cache := setupTestDB(t)
	repo := NewStageRepository(db, time.Hour)

	gomock.InOrder(
		cache.EXPECT().
			Do(gomock.Any(), mock.Match("GET", "stages:proj-7")).
			Return(mock.Result(mock.ValkeyNil())),
		cache.EXPECT().
			Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
				return len(cmd) > 2 && cmd[0] == "SET" && cmd[1] == "stages:proj-7"
			})).
			Return(mock.Result(mock.ValkeyString("OK"))),
	)

	rows := sqlmock.NewRows([]string{"id", "project_id", "name", "position", "status"}).
		AddRow(uuid.New().String(), "proj-7", "Demolition", 0, "complete").
		AddRow(uuid.New().String(), "proj-7", "Framing", 1, "active")
	sqlMock.ExpectQuery(`SELECT \* FROM "stages" WHERE project_id = \$1`).
		WithArgs("proj-7").
		WillReturnRows(rows)

	stages, err := repo.ListByProject(context.Background(), "proj-7")
	require.NoError(t, err)

	require.Len(t, stages, 2)
	assert.Equal(t, "Framing", stages[1].Name)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestStageRepository_List_UsesDomainKey(t *testing.T) {
	db, _, cache := setupTestDB(t)
	repo := NewStageRepository(db, time.Hour)

	cache.EXPECT().
		Do(gomock.Any(), mock.Match("GET", "stages")).
		Return(mock.Result(mock.ValkeyString(`[{"projectId":"p","name":"Roofing"}]`)))

	stages, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, stages, 1)
	assert.Equal(t, "Roofing", stages[0].Name)
}
