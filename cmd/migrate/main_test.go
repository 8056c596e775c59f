package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestMigrator(t *testing.T) (*migrator, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &migrator{db: db, log: zap.NewNop()}, mock
}

func writeMigration(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExtractMigrationPart(t *testing.T) {
	content := `
-- +migrate Up
CREATE TABLE products (id text);
ALTER TABLE products ADD COLUMN name text;

-- +migrate Down
DROP TABLE products;
`
	t.Run("Extract Up", func(t *testing.T) {
		up := extractMigrationPart(content, "Up")
		assert.Contains(t, up, "CREATE TABLE products")
		assert.Contains(t, up, "ALTER TABLE products")
		assert.NotContains(t, up, "DROP TABLE products")
		assert.NotContains(t, up, "-- +migrate Up")
	})

	t.Run("Extract Down", func(t *testing.T) {
		down := extractMigrationPart(content, "Down")
		assert.Contains(t, down, "DROP TABLE products")
		assert.NotContains(t, down, "CREATE TABLE products")
	})
}

func TestMigrationFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"20230201_b.sql", "20230101_a.sql", "20230301_c.sql", "notes.txt"} {
		writeMigration(t, dir, name, "")
	}

	files, err := migrationFiles(dir)
	require.NoError(t, err)

	expected := []string{
		filepath.Join(dir, "20230101_a.sql"),
		filepath.Join(dir, "20230201_b.sql"),
		filepath.Join(dir, "20230301_c.sql"),
	}
	assert.Equal(t, expected, files)
}

func TestMigrator_Up(t *testing.T) {
	t.Run("Applies pending", func(t *testing.T) {
		m, mock := newTestMigrator(t)
		dir := t.TempDir()
		file := writeMigration(t, dir, "20230101_init.sql", "-- +migrate Up\nCREATE TABLE test (id int);")

		mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
			WithArgs("20230101_init.sql").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectBegin()
		mock.ExpectExec("CREATE TABLE test").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("INSERT INTO schema_migrations").
			WithArgs("20230101_init.sql").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		require.NoError(t, m.up([]string{file}))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Skips applied", func(t *testing.T) {
		m, mock := newTestMigrator(t)
		file := writeMigration(t, t.TempDir(), "20230101_init.sql", "-- +migrate Up\nCREATE TABLE test (id int);")

		mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
			WithArgs("20230101_init.sql").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		require.NoError(t, m.up([]string{file}))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rolls back failed body", func(t *testing.T) {
		m, mock := newTestMigrator(t)
		file := writeMigration(t, t.TempDir(), "20230101_init.sql", "-- +migrate Up\nCREATE TABLE test (id int);")

		mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectBegin()
		mock.ExpectExec("CREATE TABLE test").WillReturnError(errors.New("syntax error"))
		mock.ExpectRollback()

		err := m.up([]string{file})
		assert.ErrorContains(t, err, "20230101_init.sql")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing Up section", func(t *testing.T) {
		m, mock := newTestMigrator(t)
		file := writeMigration(t, t.TempDir(), "20230101_init.sql", "-- +migrate Down\nDROP TABLE test;")

		mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		assert.Error(t, m.up([]string{file}))
	})
}

func TestMigrator_Down(t *testing.T) {
	t.Run("Rolls back latest", func(t *testing.T) {
		m, mock := newTestMigrator(t)
		file := writeMigration(t, t.TempDir(), "20230101_init.sql",
			"-- +migrate Up\nCREATE TABLE test (id int);\n-- +migrate Down\nDROP TABLE test;")

		mock.ExpectQuery("SELECT version FROM schema_migrations").
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("20230101_init.sql"))
		mock.ExpectBegin()
		mock.ExpectExec("DROP TABLE test").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("DELETE FROM schema_migrations").
			WithArgs("20230101_init.sql").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, m.down([]string{file}))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Nothing applied", func(t *testing.T) {
		m, mock := newTestMigrator(t)
		mock.ExpectQuery("SELECT version FROM schema_migrations").
			WillReturnRows(sqlmock.NewRows([]string{"version"}))

		require.NoError(t, m.down(nil))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("File missing", func(t *testing.T) {
		m, mock := newTestMigrator(t)
		mock.ExpectQuery("SELECT version FROM schema_migrations").
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("20990101_gone.sql"))

		assert.ErrorContains(t, m.down(nil), "20990101_gone.sql")
	})
}

func TestMigrator_Run(t *testing.T) {
	t.Run("Unknown mode", func(t *testing.T) {
		m, mock := newTestMigrator(t)
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))

		assert.Error(t, m.run("sideways", t.TempDir()))
	})

	t.Run("Repository migrations parse", func(t *testing.T) {
		files, err := migrationFiles("../../migrations")
		require.NoError(t, err)
		require.NotEmpty(t, files)

		for _, f := range files {
			raw, err := os.ReadFile(f)
			require.NoError(t, err)
			assert.NotEmpty(t, extractMigrationPart(string(raw), "Up"), f)
			assert.NotEmpty(t, extractMigrationPart(string(raw), "Down"), f)
		}
	})
}
