package dedup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryTrackerHasSeenAfterMarkSeen(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	seen, err := m.HasSeen(ctx, "ad-1")
	require.NoError(t, err)
	require.False(t, seen)

	require.NoError(t, m.MarkSeen(ctx, "ad-1"))

	seen, err = m.HasSeen(ctx, "ad-1")
	require.NoError(t, err)
	require.True(t, seen)
}

func TestMemoryTrackerLastRun(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, ok, err := m.LastRun(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	now := time.Now().UTC()
	require.NoError(t, m.SetLastRun(ctx, now))

	got, ok, err := m.LastRun(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.WithinDuration(t, now, got, time.Millisecond)
}
