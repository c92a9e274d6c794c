package repository_test

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"mailboard/internal/kanban/domain"
	"mailboard/internal/kanban/repository"
)

func TestColumnRepository_GetColumnsByUserID(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewColumnRepository(gormDB)

	mock.ExpectQuery(`SELECT .* FROM "kanban_columns" WHERE user_id = .* ORDER BY display_order`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "type", "display_order"}).
			AddRow("col-1", "user-1", "Inbox", "inbox", 0).
			AddRow("col-2", "user-1", "Backlog", "backlog", 1))

	columns, err := repo.GetColumnsByUserID("user-1")

	assert.NoError(t, err)
	assert.Len(t, columns, 2)
	assert.Equal(t, "Inbox", columns[0].Name)
	assert.Equal(t, domain.ColumnTypeBacklog, columns[1].Type)
	assert.NotNil(t, columns[0].AddLabelIDs, "label slices normalized to empty")
	assert.NotNil(t, columns[0].RemoveLabelIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestColumnRepository_GetColumnByID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewColumnRepository(gormDB)

	mock.ExpectQuery(`SELECT .* FROM "kanban_columns" WHERE user_id = .* AND id = .*`).
		WithArgs("user-1", "missing").
		WillReturnError(gorm.ErrRecordNotFound)

	column, err := repo.GetColumnByID("user-1", "missing")

	assert.NoError(t, err)
	assert.Nil(t, column)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestColumnRepository_ExistsByUserIDAndName(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewColumnRepository(gormDB)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "kanban_columns" WHERE user_id = .* AND name = .*`).
		WithArgs("user-1", "Clients").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsByUserIDAndName("user-1", "Clients")

	assert.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestColumnRepository_UpdateColumnOrders(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewColumnRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "kanban_columns" SET "display_order"=.*`).
		WithArgs(2, sqlmock.AnyArg(), "user-1", "col-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateColumnOrders("user-1", map[string]int{"col-1": 2})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
