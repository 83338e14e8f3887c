package persist

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/EverCrawl/client/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// openTestDB connects to EVERCRAWL_TEST_DSN or skips.
func openTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("EVERCRAWL_TEST_DSN")
	if dsn == "" {
		t.Skip("EVERCRAWL_TEST_DSN not set")
	}
	ctx := context.Background()
	db, err := NewDB(ctx, config.DatabaseConfig{DSN: dsn, MaxOpenConns: 2, MaxIdleConns: 1, ConnMaxLifetime: time.Minute}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(db.Close)
	_, err = RunMigrations(ctx, db.Pool)
	require.NoError(t, err)
	return db
}

func TestSnapshotRoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewSnapshotRepo(db)
	ctx := context.Background()
	level := "test-" + time.Now().Format("150405.000000")

	_, err := repo.Latest(ctx, level)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	for tick := uint64(1); tick <= 3; tick++ {
		_, err := repo.Save(ctx, SnapshotRow{
			Level:    level,
			Tick:     tick * 10,
			Checksum: []byte{byte(tick)},
			Entities: []EntityRow{
				{Entity: 2, PosX: float64(tick), Animation: "Walk_DownRight"},
				{Entity: 1, PosY: -4, VelX: 2},
			},
		})
		require.NoError(t, err)
	}

	got, err := repo.Latest(ctx, level)
	require.NoError(t, err)
	assert.Equal(t, uint64(30), got.Tick)
	assert.Equal(t, []byte{3}, got.Checksum)
	require.Len(t, got.Entities, 2)
	assert.Equal(t, uint32(1), got.Entities[0].Entity)
	assert.Equal(t, 2.0, got.Entities[0].VelX)
	assert.Equal(t, "Walk_DownRight", got.Entities[1].Animation)

	n, err := repo.Prune(ctx, level, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
