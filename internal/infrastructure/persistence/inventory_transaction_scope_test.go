package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	appinv "github.com/shopfront/backend/internal/application/inventory"
)

func newMockedScope(t *testing.T) (*GormTransactionScope, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewGormTransactionScope(db), mock
}

func TestGormTransactionScope_CommitsOnSuccess(t *testing.T) {
	scope, mock := newMockedScope(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := scope.Execute(context.Background(), func(repos appinv.TransactionalRepositories) error {
		assert.NotNil(t, repos.Reservations())
		assert.NotNil(t, repos.Stock())
		return nil
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTransactionScope_RollsBackOnError_Mocked(t *testing.T) {
	scope, mock := newMockedScope(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("reservation conflict")
	err := scope.Execute(context.Background(), func(appinv.TransactionalRepositories) error {
		return boom
	})

	require.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
