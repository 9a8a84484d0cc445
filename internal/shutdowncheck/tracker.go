// Package shutdowncheck tracks whether the monitor process has ever been
// killed without a clean shutdown, so an operator can tell "last crash was
// at Flush-on-start" startups apart from clean restarts.
package shutdowncheck

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/log"
)

// updateInterval is how often the marker is refreshed while running, so a
// kill -9 leaves a timestamp no more than this far in the past.
const updateInterval = 5 * time.Minute

// marker is the persistence contract ShutdownTracker needs; *store.Store
// satisfies it via ReadShutdownMarker/WriteShutdownMarker.
type marker interface {
	ReadShutdownMarker(ctx context.Context, blockchainID string) (running bool, lastSeen time.Time, ok bool, err error)
	WriteShutdownMarker(ctx context.Context, blockchainID string, running bool) error
}

// ShutdownTracker marks process startup/liveness and reports whether the
// previous run ended uncleanly, the rebuilt equivalent of the teacher's
// ethdb-backed tracker (see DESIGN.md), now written against the monitor's
// own store instead of an ethdb.Database.
type ShutdownTracker struct {
	db           marker
	blockchainID string
	stopCh       chan struct{}
}

// NewShutdownTracker constructs a tracker bound to db for one blockchain ID.
func NewShutdownTracker(db marker, blockchainID string) *ShutdownTracker {
	return &ShutdownTracker{db: db, blockchainID: blockchainID, stopCh: make(chan struct{})}
}

// MarkStartup writes the startup marker and logs whether the previous run
// left the "running" flag set (i.e. the process never reached a clean Stop).
func (t *ShutdownTracker) MarkStartup(ctx context.Context) {
	running, lastSeen, ok, err := t.db.ReadShutdownMarker(ctx, t.blockchainID)
	if err != nil {
		log.Warn("Failed to read shutdown marker", "err", err)
	} else if ok && running {
		log.Warn("Previous run did not exit cleanly", "lastSeen", lastSeen)
	}
	if err := t.db.WriteShutdownMarker(ctx, t.blockchainID, true); err != nil {
		log.Warn("Failed to write startup marker", "err", err)
	}
}

// Start begins periodically refreshing the marker in the background.
func (t *ShutdownTracker) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(updateInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := t.db.WriteShutdownMarker(ctx, t.blockchainID, true); err != nil {
					log.Warn("Failed to refresh shutdown marker", "err", err)
				}
			case <-t.stopCh:
				return
			}
		}
	}()
}

// Stop writes a clean-exit marker and halts the background refresh.
func (t *ShutdownTracker) Stop(ctx context.Context) {
	close(t.stopCh)
	if err := t.db.WriteShutdownMarker(ctx, t.blockchainID, false); err != nil {
		log.Warn("Failed to write clean-shutdown marker", "err", err)
	}
}
