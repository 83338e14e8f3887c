package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// ErrNoSnapshot is returned by Latest when a level has no saved snapshot.
var ErrNoSnapshot = errors.New("no snapshot")

type SnapshotRow struct {
	ID        int64
	Level     string
	Tick      uint64
	Checksum  []byte
	CreatedAt time.Time
	Entities  []EntityRow
}

type EntityRow struct {
	Entity    uint32
	PosX      float64
	PosY      float64
	VelX      float64
	VelY      float64
	Animation string
}

type SnapshotRepo struct {
	db *DB
}

func NewSnapshotRepo(db *DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// Save writes a snapshot and its entities in one transaction and returns the
// new snapshot id.
func (r *SnapshotRepo) Save(ctx context.Context, s SnapshotRow) (int64, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("snapshot begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	if err := tx.QueryRow(ctx,
		`INSERT INTO world_snapshots (level, tick, checksum) VALUES ($1, $2, $3) RETURNING id`,
		s.Level, int64(s.Tick), s.Checksum,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("snapshot insert: %w", err)
	}

	if len(s.Entities) > 0 {
		rows := make([][]any, len(s.Entities))
		for i, e := range s.Entities {
			rows[i] = []any{id, int32(e.Entity), e.PosX, e.PosY, e.VelX, e.VelY, e.Animation}
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"snapshot_entities"},
			[]string{"snapshot_id", "entity", "pos_x", "pos_y", "vel_x", "vel_y", "animation"},
			pgx.CopyFromRows(rows),
		); err != nil {
			return 0, fmt.Errorf("snapshot entities: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("snapshot commit: %w", err)
	}
	return id, nil
}

// Latest loads the highest-tick snapshot saved for level.
func (r *SnapshotRepo) Latest(ctx context.Context, level string) (*SnapshotRow, error) {
	s := &SnapshotRow{Level: level}
	var tick int64
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, tick, checksum, created_at FROM world_snapshots
		 WHERE level = $1 ORDER BY tick DESC, id DESC LIMIT 1`, level,
	).Scan(&s.ID, &tick, &s.Checksum, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot load: %w", err)
	}
	s.Tick = uint64(tick)

	rows, err := r.db.Pool.Query(ctx,
		`SELECT entity, pos_x, pos_y, vel_x, vel_y, animation FROM snapshot_entities
		 WHERE snapshot_id = $1 ORDER BY entity`, s.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("snapshot entities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e EntityRow
		var ent int32
		if err := rows.Scan(&ent, &e.PosX, &e.PosY, &e.VelX, &e.VelY, &e.Animation); err != nil {
			return nil, fmt.Errorf("scan entity: %w", err)
		}
		e.Entity = uint32(ent)
		s.Entities = append(s.Entities, e)
	}
	return s, rows.Err()
}

// Prune keeps the newest keep snapshots for level and deletes the rest.
func (r *SnapshotRepo) Prune(ctx context.Context, level string, keep int) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM world_snapshots WHERE level = $1 AND id NOT IN (
		     SELECT id FROM world_snapshots WHERE level = $1 ORDER BY tick DESC, id DESC LIMIT $2)`,
		level, keep,
	)
	if err != nil {
		return 0, fmt.Errorf("snapshot prune: %w", err)
	}
	return tag.RowsAffected(), nil
}
