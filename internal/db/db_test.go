package db

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WAJoseph/christian-martyrs-honor/internal/db/migrations"
)

func TestMigrateRunsEmbeddedMigrations(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orig := gooseUp
	defer func() { gooseUp = orig }()

	var gotDir string
	gooseUp = func(_ context.Context, _ *sql.DB, dir string) error {
		gotDir = dir
		return nil
	}
	require.NoError(t, Migrate(context.Background(), db))
	assert.Equal(t, ".", gotDir)

	gooseUp = func(context.Context, *sql.DB, string) error { return errors.New("boom") }
	assert.ErrorContains(t, Migrate(context.Background(), db), "boom")
}

func TestEmbeddedMigrations(t *testing.T) {
	names, err := fs.Glob(migrations.FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	body, err := fs.ReadFile(migrations.FS, "00001_init.sql")
	require.NoError(t, err)
	for _, table := range []string{"martyrs", "testimonies", "timeline_centuries", "timeline_entries"} {
		assert.Contains(t, string(body), "CREATE TABLE "+table)
	}
	assert.Contains(t, string(body), "-- +goose Up")
	assert.Contains(t, string(body), "-- +goose Down")
}

func TestOpenUnreachable(t *testing.T) {
	_, err := Open(context.Background(), "postgres://u:p@127.0.0.1:1/db?sslmode=disable&connect_timeout=1", Options{})
	assert.Error(t, err)
}
