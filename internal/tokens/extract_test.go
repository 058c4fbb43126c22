package tokens

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractFromHTMLFindsLSDAndRev(t *testing.T) {
	s := NewStore()
	s.ExtractFromHTML(`garbage ["LSD",[],{"token":"abc123"}] more garbage "__spin_r":998877`)

	require.Equal(t, "abc123", s.LSD())
	rev, ok := s.Get("__rev")
	require.True(t, ok)
	require.Equal(t, "998877", rev)
	spinR, ok := s.Get("__spin_r")
	require.True(t, ok)
	require.Equal(t, "998877", spinR)
}

func TestExtractFromHTMLFirstMatchWinsAcrossCalls(t *testing.T) {
	s := NewStore()
	s.ExtractFromHTML(`"lsd":"first"`)
	s.ExtractFromHTML(`"lsd":"second"`)

	require.Equal(t, "first", s.LSD())
}

func TestExtractFromHTMLNoMatchLeavesValueAbsent(t *testing.T) {
	s := NewStore()
	s.ExtractFromHTML(`nothing relevant here`)

	_, ok := s.Get("lsd")
	require.False(t, ok)
}

func TestExtractDocIDsPattern2NameThenID(t *testing.T) {
	s := NewStore()
	html := `{"name":"AdLibrarySearchPaginationQuery","queryID":"12345678901234567"}`
	s.ExtractDocIDs(html)

	require.Equal(t, "12345678901234567", s.DocID(DocQuerySearch))
}

func TestExtractDocIDsPattern3IDThenName(t *testing.T) {
	s := NewStore()
	html := `{"id":"98765432109876","operationName":"useAdLibraryTypeaheadSuggestionDataSourceQuery"}`
	s.ExtractDocIDs(html)

	require.Equal(t, "98765432109876", s.DocID(DocQueryTypeahead))
}

func TestDocIDFallsBackToBuildTimeConstant(t *testing.T) {
	s := NewStore()
	require.Equal(t, DocIDSearch, s.DocID(DocQuerySearch))
	require.Equal(t, DocIDTypeahead, s.DocID(DocQueryTypeahead))
	require.Equal(t, "", s.DocID("UnknownQuery"))
}

func TestExtractDocIDsDoesNotOverwriteExisting(t *testing.T) {
	s := NewStore()
	s.docIDs = map[string]string{DocQuerySearch: "111"}
	html := `{"name":"AdLibrarySearchPaginationQuery","queryID":"25464068859919530"}`
	s.ExtractDocIDs(html)

	require.Equal(t, "111", s.DocID(DocQuerySearch))
}
