package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStaleBeforeInitialization(t *testing.T) {
	s := &Session{}
	require.True(t, s.Stale(time.Now()))
}

func TestStaleWithinMaxAge(t *testing.T) {
	s := &Session{initialized: true, createdAt: time.Now()}
	require.False(t, s.Stale(time.Now().Add(MaxSessionAge/2)))
}

func TestStaleAfterMaxAge(t *testing.T) {
	s := &Session{initialized: true, createdAt: time.Now()}
	require.True(t, s.Stale(time.Now().Add(MaxSessionAge+time.Second)))
}

func TestInitializedReflectsState(t *testing.T) {
	s := &Session{}
	require.False(t, s.Initialized())
	s.initialized = true
	require.True(t, s.Initialized())
}

func TestRefreshFailuresIncrementsAndResets(t *testing.T) {
	s := &Session{}
	require.Equal(t, 0, s.RefreshFailures())
	s.IncrementRefreshFailures()
	s.IncrementRefreshFailures()
	require.Equal(t, 2, s.RefreshFailures())
	s.ResetRefreshFailures()
	require.Equal(t, 0, s.RefreshFailures())
}

func TestLandingParamsDefaultsToAllFilters(t *testing.T) {
	s := &Session{}
	params := s.landingParams()

	require.Equal(t, "active", params["active_status"])
	require.Equal(t, "all", params["ad_type"])
	require.Equal(t, "US", params["country"])
	require.Equal(t, "all", params["media_type"])
}

func TestHumanJitterWithinRange(t *testing.T) {
	for i := 0; i < 20; i++ {
		d := humanJitter()
		require.GreaterOrEqual(t, d, 1500*time.Millisecond)
		require.Less(t, d, 3000*time.Millisecond)
	}
}
