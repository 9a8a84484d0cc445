package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWithTimeout_ZeroTimeout_ReturnsOriginalContext(t *testing.T) {
	s := &Store{}
	ctx := context.Background()

	got, cancel := s.withTimeout(ctx)
	defer cancel()

	require.Equal(t, ctx, got)
	_, hasDeadline := got.Deadline()
	require.False(t, hasDeadline)
}

func TestWithTimeout_NonZeroTimeout_SetsDeadline(t *testing.T) {
	s := &Store{timeout: time.Second}
	ctx := context.Background()

	got, cancel := s.withTimeout(ctx)
	defer cancel()

	deadline, hasDeadline := got.Deadline()
	require.True(t, hasDeadline)
	require.WithinDuration(t, time.Now().Add(time.Second), deadline, 100*time.Millisecond)
}
