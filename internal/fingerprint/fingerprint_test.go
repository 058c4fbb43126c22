package fingerprint

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateChromeMajorAgreesWithUserAgent(t *testing.T) {
	for i := 0; i < 50; i++ {
		b := Generate()
		require.Contains(t, b.UserAgent, "Chrome/"+b.ChromeMajor+".")
		require.Contains(t, b.SecChUa, `"Google Chrome";v="`+b.ChromeMajor+`"`)
	}
}

func TestGeneratePlatformAgreesAcrossFields(t *testing.T) {
	for i := 0; i < 50; i++ {
		b := Generate()
		switch b.PlatformName {
		case "windows":
			require.Contains(t, b.UserAgent, "Windows NT")
			require.Equal(t, `"Windows"`, b.SecChUaPlatform)
		case "macos":
			require.Contains(t, b.UserAgent, "Macintosh")
			require.Equal(t, `"macOS"`, b.SecChUaPlatform)
		default:
			t.Fatalf("unexpected platform name %q", b.PlatformName)
		}
	}
}

func TestDefaultHeadersCarryFingerprintFields(t *testing.T) {
	b := Generate()
	h := b.DefaultHeaders()

	require.Equal(t, b.UserAgent, h["user-agent"])
	require.Equal(t, b.SecChUaPlatform, h["sec-ch-ua-platform"])
	require.Equal(t, "navigate", h["sec-fetch-mode"])
}

func TestGraphQLHeadersTargetXHR(t *testing.T) {
	b := Generate()
	h := b.GraphQLHeaders()

	require.Equal(t, "cors", h["sec-fetch-mode"])
	require.Equal(t, "empty", h["sec-fetch-dest"])
	require.True(t, strings.HasPrefix(h["content-type"], "application/x-www-form-urlencoded"))
	require.Equal(t, "359341", h["x-asbd-id"])
}
