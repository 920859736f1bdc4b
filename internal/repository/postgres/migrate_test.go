package postgres

import (
	"io"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	src, err := iofs.New(migrationFiles, "migrations")
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	next, err := src.Next(first)
	require.NoError(t, err)
	assert.Equal(t, uint(2), next)

	up, _, err := src.ReadUp(first)
	require.NoError(t, err)
	defer up.Close()
	body, err := io.ReadAll(up)
	require.NoError(t, err)
	assert.Contains(t, string(body), "WHERE status <> 'cancelled'")

	_, _, err = src.ReadDown(next)
	assert.NoError(t, err)
}
