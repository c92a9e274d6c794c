package repository_test

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"mailboard/internal/kanban/domain"
	"mailboard/internal/kanban/repository"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	assert.NoError(t, err)

	return gormDB, mock
}

func TestEmailStatusRepository_GetByUserIDAndEmailID_Found(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewEmailStatusRepository(gormDB)

	mock.ExpectQuery(`SELECT .* FROM "email_kanban_statuses" WHERE user_id = .* AND email_id = .*`).
		WithArgs("user-1", "msg-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "email_id", "column_id", "order_in_column"}).
			AddRow("row-1", "user-1", "msg-1", "col-1", 3))

	status, err := repo.GetByUserIDAndEmailID("user-1", "msg-1")

	assert.NoError(t, err)
	assert.NotNil(t, status)
	assert.Equal(t, "msg-1", status.EmailID)
	assert.Equal(t, "col-1", status.ColumnID)
	assert.Equal(t, 3, status.OrderInColumn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmailStatusRepository_GetByUserIDAndEmailID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewEmailStatusRepository(gormDB)

	mock.ExpectQuery(`SELECT .* FROM "email_kanban_statuses" WHERE user_id = .* AND email_id = .*`).
		WithArgs("user-1", "missing").
		WillReturnError(gorm.ErrRecordNotFound)

	status, err := repo.GetByUserIDAndEmailID("user-1", "missing")

	assert.NoError(t, err)
	assert.Nil(t, status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmailStatusRepository_Create_Duplicate(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewEmailStatusRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "email_kanban_statuses"`).
		WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectRollback()

	err := repo.Create(&domain.EmailStatus{UserID: "user-1", EmailID: "msg-1", ColumnID: "col-1"})

	assert.ErrorIs(t, err, repository.ErrDuplicateEmailStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmailStatusRepository_CountByUserIDAndColumnID(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewEmailStatusRepository(gormDB)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "email_kanban_statuses" WHERE user_id = .* AND column_id = .*`).
		WithArgs("user-1", "col-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountByUserIDAndColumnID("user-1", "col-1")

	assert.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmailStatusRepository_FindExpiredSnoozes(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewEmailStatusRepository(gormDB)

	mock.ExpectQuery(`SELECT .* FROM "email_kanban_statuses" WHERE snoozed = .* AND snooze_until <= .*`).
		WithArgs(true, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "email_id", "snoozed"}).
			AddRow("row-1", "user-1", "msg-1", true).
			AddRow("row-2", "user-2", "msg-2", true))

	expired, err := repo.FindExpiredSnoozes(time.Now())

	assert.NoError(t, err)
	assert.Len(t, expired, 2)
	assert.Equal(t, "msg-1", expired[0].EmailID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmailStatusRepository_DeleteByUserIDAndEmailID(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewEmailStatusRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "email_kanban_statuses" WHERE user_id = .* AND email_id = .*`).
		WithArgs("user-1", "msg-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.DeleteByUserIDAndEmailID("user-1", "msg-1")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
