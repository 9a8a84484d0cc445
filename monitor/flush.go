package monitor

import (
	"context"
	"fmt"

	"github.com/ethereum-mive/evmcache/store"
)

// flushOnStart implements spec.md §4.6: delete everything recorded at the
// resumption height, in the stated order, before the cursor loop ever
// re-fetches it. A crash mid-persist of height n0 leaves at most a partial
// write at n0; deleting and re-fetching it from scratch restores
// transactional atomicity across process restarts without needing to
// inspect what survived the crash.
func flushOnStart(ctx context.Context, db *store.Store, blockchainID string, n0 uint64) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("monitor: flush begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := store.DeleteLogs(ctx, tx, blockchainID, n0); err != nil {
		return err
	}
	if err := store.DeleteTransactions(ctx, tx, blockchainID, n0); err != nil {
		return err
	}
	if err := store.DeleteOmmers(ctx, tx, blockchainID, n0); err != nil {
		return err
	}
	if err := store.DeleteBlock(ctx, tx, blockchainID, n0); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("monitor: flush commit: %w", err)
	}
	return nil
}
