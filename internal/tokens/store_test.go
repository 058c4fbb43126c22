package tokens

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func TestFillFallbacksPopulatesEverythingWhenEmpty(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.FillFallbacks())

	require.NotEmpty(t, s.LSD())
	for _, key := range []string{"fb_dtsg", "jazoest", "__hsi", "__hs", "__comet_req", "__dyn", "__csr", "v", "x-asbd-id", "__rev", "__spin_r"} {
		v, ok := s.Get(key)
		require.True(t, ok, "expected fallback for %s", key)
		require.NotEmpty(t, v)
	}
}

func TestFillFallbacksDoesNotOverwriteExtractedValues(t *testing.T) {
	s := NewStore()
	s.ExtractFromHTML(`["LSD",[],{"token":"real-lsd"}]`)

	require.NoError(t, s.FillFallbacks())
	require.Equal(t, "real-lsd", s.LSD())
}

func TestFillFallbacksJazoestDerivesFromResolvedLSD(t *testing.T) {
	s := NewStore()
	s.ExtractFromHTML(`["LSD",[],{"token":"abc123"}]`)

	require.NoError(t, s.FillFallbacks())

	v, ok := s.Get("jazoest")
	require.True(t, ok)
	require.Equal(t, calculateJazoest("abc123"), v)
}

func TestFormBodyReturnsACopy(t *testing.T) {
	s := NewStore()
	s.ExtractFromHTML(`"lsd":"abc"`)
	body := s.FormBody()
	body["lsd"] = "mutated"

	require.Equal(t, "abc", s.LSD())
}

func TestScanDocumentExtractsFromScriptTags(t *testing.T) {
	s := NewStore()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<html><body><script>var x = ["LSD",[],{"token":"from-script"}];</script></body></html>`,
	))
	require.NoError(t, err)

	s.ScanDocument(context.Background(), doc)

	require.Equal(t, "from-script", s.LSD())
}

func TestScanDocumentSkipsEmptyScripts(t *testing.T) {
	s := NewStore()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<html><body><script></script></body></html>`,
	))
	require.NoError(t, err)

	require.NotPanics(t, func() { s.ScanDocument(context.Background(), doc) })
	_, ok := s.Get("lsd")
	require.False(t, ok)
}
