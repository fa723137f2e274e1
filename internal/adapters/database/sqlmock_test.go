package database_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/hospitalrecords/internal/adapters/database"
	"github.com/zatekoja/hospitalrecords/internal/domain/entities"
	"github.com/zatekoja/hospitalrecords/internal/infrastructure/clients/sqlite"
	"github.com/zatekoja/hospitalrecords/pkg/config"
	apperrors "github.com/zatekoja/hospitalrecords/pkg/errors"
)

func setupMockDB(t *testing.T) (*sqlite.Client, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock database: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "sqlite3")
	return sqlite.NewClientFromDB(db, &config.DatabaseConfig{Path: "mock.db"}), mock
}

func TestPatientAdapter_CreateUsesPlaceholders(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := database.NewPatientAdapter(client)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `patients` (`address`, `age`, `contact`, `name`) VALUES (?, ?, ?, ?)")).
		WithArgs("Rua A", int64(30), "555", "Ana").
		WillReturnResult(sqlmock.NewResult(12, 1))

	patient := &entities.Patient{Name: "Ana", Age: 30, Address: "Rua A", Contact: "555"}
	require.NoError(t, adapter.Create(context.Background(), patient))

	assert.Equal(t, int64(12), patient.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientAdapter_CreateExecFailure(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := database.NewPatientAdapter(client)

	mock.ExpectExec("INSERT INTO `patients`").WillReturnError(errors.New("disk I/O error"))

	err := adapter.Create(context.Background(), &entities.Patient{Name: "Ana", Age: 30})

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientAdapter_UpdateNoRowsIsNotFound(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := database.NewPatientAdapter(client)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE `patients` SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := adapter.Update(context.Background(), &entities.Patient{ID: 7, Name: "Ana"})

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	assert.Contains(t, err.Error(), "patient with id 7 not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientAdapter_SearchEscapesWildcards(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := database.NewPatientAdapter(client)

	mock.ExpectQuery(regexp.QuoteMeta(`LIKE ? ESCAPE '\'`)).
		WithArgs(`%50\%\_off%`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "age", "address", "contact"}).
			AddRow(1, "50%_off", 20, "A", "C"))

	found, err := adapter.SearchByName(context.Background(), "50%_off")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "50%_off", found[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDoctorAdapter_DeleteRowsAffectedFailure(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := database.NewDoctorAdapter(client)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `doctors` WHERE (`id` = ?)")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewErrorResult(errors.New("driver gave up")))

	err := adapter.Delete(context.Background(), 3)

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
	assert.Contains(t, err.Error(), "failed to get rows affected")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentAdapter_ListQueryFailure(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := database.NewAppointmentAdapter(client)

	mock.ExpectQuery("LEFT JOIN `patients` AS `p`").WillReturnError(errors.New("no such table: appointments"))

	_, err := adapter.List(context.Background())

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCredentialAdapter_Count(t *testing.T) {
	client, mock := setupMockDB(t)
	adapter := database.NewCredentialAdapter(client)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM `users`")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := adapter.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
