package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
)

// ReadShutdownMarker reports whether blockchainID's marker row says the
// previous run was left mid-flight ("running") and when it was last
// refreshed. ok is false if no marker has ever been written.
func (s *Store) ReadShutdownMarker(ctx context.Context, blockchainID string) (running bool, lastSeen time.Time, ok bool, err error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	row := s.pool.QueryRow(ctx,
		`SELECT running, updated_at FROM monitor_shutdown_marker WHERE blockchain_id = $1`,
		blockchainID)
	if err := row.Scan(&running, &lastSeen); err != nil {
		if err == pgx.ErrNoRows {
			return false, time.Time{}, false, nil
		}
		return false, time.Time{}, false, err
	}
	return running, lastSeen, true, nil
}

// WriteShutdownMarker upserts blockchainID's marker row.
func (s *Store) WriteShutdownMarker(ctx context.Context, blockchainID string, running bool) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO monitor_shutdown_marker (blockchain_id, running, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (blockchain_id) DO UPDATE SET running = EXCLUDED.running, updated_at = now()`,
		blockchainID, running)
	return err
}
