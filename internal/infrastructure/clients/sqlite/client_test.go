package sqlite_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/hospitalrecords/internal/infrastructure/clients/sqlite"
	"github.com/zatekoja/hospitalrecords/pkg/config"
	apperrors "github.com/zatekoja/hospitalrecords/pkg/errors"
)

func newTestClient(t *testing.T, path string) *sqlite.Client {
	t.Helper()
	client, err := sqlite.NewClient(context.Background(), &config.DatabaseConfig{
		Path:          path,
		BusyTimeoutMS: 1000,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() }) //nolint:errcheck
	return client
}

func tableNames(t *testing.T, client *sqlite.Client) []string {
	t.Helper()
	var names []string
	err := client.DB().SelectContext(context.Background(), &names,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	require.NoError(t, err)
	return names
}

func TestNewClient_CreatesFileAndSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hospital.db")
	client := newTestClient(t, path)

	_, err := os.Stat(path)
	require.NoError(t, err)
	assert.ElementsMatch(t, sqlite.Tables, tableNames(t, client))
	assert.Equal(t, path, client.Path())
	assert.False(t, client.InMemory())
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hospital.db")
	client := newTestClient(t, path)

	_, err := client.DB().Exec("INSERT INTO patients (name, age, address, contact) VALUES ('Ana', 30, 'Rua A', '555')")
	require.NoError(t, err)

	require.NoError(t, sqlite.EnsureSchema(context.Background(), client.DB()))

	var count int
	require.NoError(t, client.DB().Get(&count, "SELECT COUNT(*) FROM patients"))
	assert.Equal(t, 1, count)
}

func TestNewClient_InMemory(t *testing.T) {
	client := newTestClient(t, ":memory:")

	assert.True(t, client.InMemory())
	assert.Len(t, tableNames(t, client), 4)

	err := client.ReplaceFile(context.Background(), func(string) error { return nil })
	assert.ErrorIs(t, err, sqlite.ErrInMemory)
}

func TestReplaceFile_SwapsContents(t *testing.T) {
	dir := t.TempDir()
	other := newTestClient(t, filepath.Join(dir, "other.db"))
	_, err := other.DB().Exec("INSERT INTO doctors (name, specialty, schedule) VALUES ('Dr. Lima', 'Cardiology', 'Mon')")
	require.NoError(t, err)
	require.NoError(t, other.Close())

	client := newTestClient(t, filepath.Join(dir, "hospital.db"))
	err = client.ReplaceFile(context.Background(), func(path string) error {
		data, err := os.ReadFile(filepath.Join(dir, "other.db"))
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0o600)
	})
	require.NoError(t, err)

	var name string
	require.NoError(t, client.DB().Get(&name, "SELECT name FROM doctors WHERE id = 1"))
	assert.Equal(t, "Dr. Lima", name)
}

func TestReplaceFile_ReopensAfterFailure(t *testing.T) {
	client := newTestClient(t, filepath.Join(t.TempDir(), "hospital.db"))
	boom := errors.New("copy failed")

	err := client.ReplaceFile(context.Background(), func(string) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, client.Ping(context.Background()))
}

func TestReplaceFile_CorruptBodyKeepsLiveFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hospital.db")
	client := newTestClient(t, path)
	_, err := client.DB().Exec("INSERT INTO patients (name, age, address, contact) VALUES ('Ana', 30, 'Rua A', '555')")
	require.NoError(t, err)

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	corrupt := append([]byte("SQLite format 3\x00"), bytes.Repeat([]byte{0xAB}, 200)...)
	err = client.ReplaceFile(context.Background(), func(staged string) error {
		return os.WriteFile(staged, corrupt, 0o600)
	})
	require.Error(t, err)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	var count int
	require.NoError(t, client.DB().Get(&count, "SELECT COUNT(*) FROM patients"))
	assert.Equal(t, 1, count)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "staged file left behind")
}

func TestReplaceFile_AddsMissingTables(t *testing.T) {
	dir := t.TempDir()
	client := newTestClient(t, filepath.Join(dir, "hospital.db"))

	err := client.ReplaceFile(context.Background(), func(staged string) error {
		db, err := sqlx.Open("sqlite3", staged)
		if err != nil {
			return err
		}
		defer db.Close()
		_, err = db.Exec("CREATE TABLE patients (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL, age INTEGER, address TEXT, contact TEXT)")
		return err
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, sqlite.Tables, tableNames(t, client))
}

func TestConn_ClosedIsStorageError(t *testing.T) {
	client := newTestClient(t, filepath.Join(t.TempDir(), "hospital.db"))
	require.NoError(t, client.Close())

	db, err := client.Conn()

	assert.Nil(t, db)
	assert.ErrorIs(t, err, sqlite.ErrClosed)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeStorage))
	assert.Error(t, client.Ping(context.Background()))
}

func TestForeignKeysOffByDefault(t *testing.T) {
	client := newTestClient(t, filepath.Join(t.TempDir(), "hospital.db"))

	_, err := client.DB().Exec("INSERT INTO appointments (patient_id, doctor_id, date, time) VALUES (41, 42, '01/01/2024', '10:00')")
	assert.NoError(t, err)
}

func TestForeignKeysEnforced(t *testing.T) {
	client, err := sqlite.NewClient(context.Background(), &config.DatabaseConfig{
		Path:              filepath.Join(t.TempDir(), "hospital.db"),
		BusyTimeoutMS:     1000,
		EnforceForeignKey: true,
	}, nil)
	require.NoError(t, err)
	defer client.Close()

	_, err = client.DB().Exec("INSERT INTO appointments (patient_id, doctor_id, date, time) VALUES (41, 42, '01/01/2024', '10:00')")
	require.Error(t, err)
	assert.True(t, sqlite.IsForeignKeyViolation(err))
}

func TestIsUniqueViolation(t *testing.T) {
	client := newTestClient(t, filepath.Join(t.TempDir(), "hospital.db"))

	_, err := client.DB().Exec("INSERT INTO users (username, password) VALUES ('admin', 'admin')")
	require.NoError(t, err)
	_, err = client.DB().Exec("INSERT INTO users (username, password) VALUES ('admin', 'other')")

	require.Error(t, err)
	assert.True(t, sqlite.IsUniqueViolation(err))
	assert.False(t, sqlite.IsForeignKeyViolation(err))
	assert.False(t, sqlite.IsBusy(err))
}

func TestInstrument_EndsSpan(t *testing.T) {
	client := newTestClient(t, ":memory:")

	ctx, done := client.Instrument(context.Background(), "patients.select")
	assert.NotNil(t, ctx)
	assert.NotPanics(t, func() { done(errors.New("boom")) })
}
