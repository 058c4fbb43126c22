package chrono

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStandardTimeNowIsUTC(t *testing.T) {
	s := NewStandardTime()
	now := s.Now()
	require.Equal(t, time.UTC, now.Location())
}

func TestStandardTimeSatisfiesTimeAPI(t *testing.T) {
	var api TimeAPI = NewStandardTime()
	require.WithinDuration(t, time.Now().UTC(), api.Now(), time.Second)
}
