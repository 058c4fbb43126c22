package urlparser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractPageID(t *testing.T) {
	table := []struct {
		input    string
		expectID string
		expectOK bool
	}{
		{input: "123456789", expectID: "123456789", expectOK: true},
		{input: "  123456789  ", expectID: "123456789", expectOK: true},
		{input: "https://www.facebook.com/ads/library/?view_all_page_id=987654321", expectID: "987654321", expectOK: true},
		{input: "https://www.facebook.com/profile.php?id=112233445", expectID: "112233445", expectOK: true},
		{input: "https://www.facebook.com/123456789", expectID: "123456789", expectOK: true},
		{input: "www.facebook.com/123456789", expectID: "123456789", expectOK: true},
		{input: "https://www.facebook.com/cocacola", expectID: "", expectOK: false},
		{input: "https://example.com/123456789", expectID: "", expectOK: false},
		{input: "", expectID: "", expectOK: false},
		{input: "https://www.facebook.com/", expectID: "", expectOK: false},
	}

	for _, row := range table {
		id, ok := ExtractPageID(row.input)
		require.Equal(t, row.expectOK, ok, "input: %s", row.input)
		require.Equal(t, row.expectID, id, "input: %s", row.input)
	}
}
