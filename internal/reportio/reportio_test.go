package reportio

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"adlibrary-collector/internal/models"

	"github.com/stretchr/testify/require"
)

func sampleAd() models.Ad {
	pub := int64(1000)
	return models.Ad{
		ID:                 "ad-1",
		Page:               &models.PageInfo{ID: "page-1", Name: "Acme Inc"},
		AdStatus:           "ACTIVE",
		Impressions:        &models.ImpressionRange{LowerBound: &pub},
		PublisherPlatforms: []string{"facebook", "instagram"},
		CollectedAt:        time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestNewWriterRejectsUnknownFormat(t *testing.T) {
	_, err := NewWriter("xml", &bytes.Buffer{})
	require.Error(t, err)
}

func TestJSONLWriterEncodesOnePerLine(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(FormatJSONL, &buf)
	require.NoError(t, err)

	require.NoError(t, w.WriteAd(sampleAd()))
	require.NoError(t, w.WriteAd(sampleAd()))
	require.NoError(t, w.Close())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	var decoded models.Ad
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &decoded))
	require.Equal(t, "ad-1", decoded.ID)
}

func TestJSONWriterBuffersUntilClose(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(FormatJSON, &buf)
	require.NoError(t, err)

	require.NoError(t, w.WriteAd(sampleAd()))
	require.Empty(t, buf.String())
	require.NoError(t, w.Close())

	var decoded []models.Ad
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	require.Equal(t, "ad-1", decoded[0].ID)
}

func TestCSVWriterWritesHeaderOnceThenRows(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(FormatCSV, &buf)
	require.NoError(t, err)

	require.NoError(t, w.WriteAd(sampleAd()))
	require.NoError(t, w.WriteAd(sampleAd()))
	require.NoError(t, w.Close())

	r := csv.NewReader(&buf)
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, csvColumns, rows[0])
	require.Equal(t, "ad-1", rows[1][0])
	require.Equal(t, "Acme Inc", rows[1][3])
	require.Equal(t, "facebook;instagram", rows[1][15])
}

func TestTableWriterRendersPageAndPlatforms(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(FormatTable, &buf)
	require.NoError(t, err)

	require.NoError(t, w.WriteAd(sampleAd()))
	require.NoError(t, w.Close())

	out := buf.String()
	require.Contains(t, out, "Acme Inc")
	require.Contains(t, out, "facebook,instagram")
}
