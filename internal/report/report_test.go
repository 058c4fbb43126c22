package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestThroughputZeroDuration(t *testing.T) {
	r := CollectionReport{TotalCollected: 10, DurationSeconds: 0}
	require.Equal(t, float64(0), r.Throughput())
}

func TestThroughputComputed(t *testing.T) {
	r := CollectionReport{TotalCollected: 100, DurationSeconds: 10}
	require.Equal(t, 10.0, r.Throughput())
}

func TestWriteTableRendersMetrics(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, CollectionReport{TotalCollected: 5, Errors: 1, DurationSeconds: 2})

	out := buf.String()
	require.Contains(t, out, "Total collected")
	require.Contains(t, out, "5")
	require.Contains(t, out, "Throughput")
}

func TestFormatJSONRoundTrips(t *testing.T) {
	s, err := FormatJSON(CollectionReport{TotalCollected: 3, DuplicatesSkipped: 1})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &decoded))
	require.Equal(t, float64(3), decoded["total_collected"])
	require.Equal(t, float64(1), decoded["duplicates_skipped"])
}
