package migrations

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSContainsInitMigration(t *testing.T) {
	names, err := fs.Glob(FS, "*.sql")
	require.NoError(t, err)
	assert.Contains(t, names, "00001_init.sql")

	body, err := fs.ReadFile(FS, "00001_init.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "-- +goose Up")
	assert.Contains(t, string(body), "stripe_payment_id TEXT NOT NULL UNIQUE")
}

func TestRunWrapsGooseError(t *testing.T) {
	orig := gooseUp
	t.Cleanup(func() { gooseUp = orig })

	var gotDir string
	gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
		gotDir = dir
		return errors.New("boom")
	}

	err := run(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrate up: boom")
	assert.Equal(t, ".", gotDir)
}
