package persist

import (
	"io/fs"
	"testing"
	"time"

	"github.com/EverCrawl/client/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	names, err := fs.Glob(Migrations(), "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	body, err := fs.ReadFile(Migrations(), names[0])
	require.NoError(t, err)
	assert.Contains(t, string(body), "-- +goose Up")
	assert.Contains(t, string(body), "world_snapshots")
}

func TestPoolConfig(t *testing.T) {
	pc, err := poolConfig(config.DatabaseConfig{
		DSN:             "postgres://u:p@db.local:5432/crawl",
		MaxOpenConns:    4,
		MaxIdleConns:    9,
		ConnMaxLifetime: time.Minute,
	})
	require.NoError(t, err)
	assert.Equal(t, "db.local", pc.ConnConfig.Host)
	assert.Equal(t, "crawl", pc.ConnConfig.Database)
	assert.Equal(t, int32(4), pc.MaxConns)
	assert.Equal(t, int32(4), pc.MinConns, "idle conns never exceed the pool size")
	assert.Equal(t, time.Minute, pc.MaxConnLifetime)

	_, err = poolConfig(config.DatabaseConfig{DSN: "postgres://%zz"})
	assert.ErrorContains(t, err, "parse dsn")
}
