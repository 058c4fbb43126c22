package normalize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromGraphQLResponseCardsDialect(t *testing.T) {
	data := map[string]any{
		"ad_archive_id": "111",
		"page_id":       "222",
		"page_name":     "Acme Corp",
		"cards": []any{
			map[string]any{
				"body":               "Buy now",
				"caption":            "acme.com",
				"title":              "Big Sale",
				"resized_image_url":  "https://img/one.jpg",
				"cta_text":           "Shop Now",
			},
		},
	}

	ad := FromGraphQLResponse(data)
	require.Equal(t, "111", ad.ID)
	require.NotNil(t, ad.Page)
	require.Equal(t, "222", ad.Page.ID)
	require.Equal(t, "Acme Corp", ad.Page.Name)
	require.Len(t, ad.Creatives, 1)
	require.Equal(t, "Buy now", ad.Creatives[0].Body)
	require.Equal(t, "Big Sale", ad.Creatives[0].Title)
	require.Equal(t, "Shop Now", ad.Creatives[0].CTAText)
}

func TestFromGraphQLResponseFlatDialect(t *testing.T) {
	data := map[string]any{
		"id":    "333",
		"body":  "Flat body text",
		"title": "Flat title",
		"images": []any{
			map[string]any{"original_image_url": "https://img/flat.jpg"},
		},
	}

	ad := FromGraphQLResponse(data)
	require.Equal(t, "333", ad.ID)
	require.Len(t, ad.Creatives, 1)
	require.Equal(t, "Flat body text", ad.Creatives[0].Body)
	require.Equal(t, "https://img/flat.jpg", ad.Creatives[0].ImageURL)
}

func TestFromGraphQLResponseLegacyDialect(t *testing.T) {
	data := map[string]any{
		"id":                   "444",
		"ad_creative_bodies":   []any{"body one", "body two"},
		"ad_creative_link_titles": []any{"title one"},
	}

	ad := FromGraphQLResponse(data)
	require.Len(t, ad.Creatives, 2)
	require.Equal(t, "body one", ad.Creatives[0].Body)
	require.Equal(t, "title one", ad.Creatives[0].Title)
	require.Equal(t, "body two", ad.Creatives[1].Body)
	require.Equal(t, "", ad.Creatives[1].Title)
}

func TestParseImpressionTextRanges(t *testing.T) {
	table := []struct {
		input string
		lower int64
		upper int64
	}{
		{"1K-5K", 1000, 5000},
		{"10K-50K", 10000, 50000},
		{"1M-5M", 1_000_000, 5_000_000},
	}

	for _, row := range table {
		lower, upper := parseImpressionText(row.input)
		require.NotNil(t, lower)
		require.NotNil(t, upper)
		require.Equal(t, row.lower, *lower)
		require.Equal(t, row.upper, *upper)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	require.Equal(t, "b", firstNonEmpty("", "b", "c"))
	require.Equal(t, "", firstNonEmpty("", ""))
}
