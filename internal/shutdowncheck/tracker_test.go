package shutdowncheck

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeMarker struct {
	mu      sync.Mutex
	running bool
	lastSeen time.Time
	ok      bool
	writes  int
}

func (f *fakeMarker) ReadShutdownMarker(ctx context.Context, blockchainID string) (bool, time.Time, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running, f.lastSeen, f.ok, nil
}

func (f *fakeMarker) WriteShutdownMarker(ctx context.Context, blockchainID string, running bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = running
	f.ok = true
	f.writes++
	return nil
}

func TestMarkStartup_WritesRunningTrue(t *testing.T) {
	m := &fakeMarker{}
	tr := NewShutdownTracker(m, "mainnet")

	tr.MarkStartup(context.Background())

	m.mu.Lock()
	defer m.mu.Unlock()
	require.True(t, m.running)
	require.Equal(t, 1, m.writes)
}

func TestStop_WritesRunningFalse(t *testing.T) {
	m := &fakeMarker{}
	tr := NewShutdownTracker(m, "mainnet")

	tr.MarkStartup(context.Background())
	tr.Stop(context.Background())

	m.mu.Lock()
	defer m.mu.Unlock()
	require.False(t, m.running)
	require.Equal(t, 2, m.writes)
}

func TestStart_Stop_DoesNotPanicOrDeadlock(t *testing.T) {
	m := &fakeMarker{}
	tr := NewShutdownTracker(m, "mainnet")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tr.Start(ctx)
	tr.Stop(ctx)
}
