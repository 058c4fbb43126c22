package tokens

// Build-time fallback values, read-only for the lifetime of the process.
// These stand in when the landing page's extraction regexes find nothing,
// so a session can still attempt requests rather than failing outright.
const (
	FallbackDyn = "7xeUmwlECdwn8K2Wmh0no6u5U4e1Fx-ewSAwHwNw9G2S2q0_EtxG4o0B-qbwgE1EEb87C" +
		"1xwEwgo9oO0n24oaEd86a3a1YwBgao6C0Mo6i588Etw8WfK1LwPxe2GewbCXwJwmE2eUlwh" +
		"E2Lw6OyES0gq0K-1LwqobU3Cwr86C1nwf6Eb87u1rwGwto461ww"
	FallbackCsr = "gjSxK8GXhkbjAmy4j8gBkiHG8FVCIJBHjpXUrByK5HxuquEyUK5Emz8Oaw9G3S5UoyUK588" +
		"E4a2W0C8eEcE4S2m12wg8O1fwau1IwiEow9qE5S3KUK320g-1fDw49w2v80PS07XU0ptw2Ao" +
		"05Ey02zC0aFw0hIQ00BPo06XK6k00CSo072W09xw4jw"
	FallbackRev       = "1032373751"
	FallbackHs        = "20476.HYP:comet_plat_default_pkg.2.1...0"
	FallbackCometReq  = "94"
	FallbackAPIVer    = "fbece7"
	FallbackAsbdID    = "359341"

	// DocIDSearch and DocIDTypeahead are the GraphQL document ids used when
	// the landing page's own scan (see §4.2) doesn't turn up fresher ones.
	DocIDSearch    = "25464068859919530"   // AdLibrarySearchPaginationQuery
	DocIDTypeahead = "9755915494515334" // useAdLibraryTypeaheadSuggestionDataSourceQuery
)

// DocQueryNames are the two query names the doc-id extraction regexes look
// for on the landing page, in the order the store needs them filled.
const (
	DocQuerySearch    = "AdLibrarySearchPaginationQuery"
	DocQueryTypeahead = "useAdLibraryTypeaheadSuggestionDataSourceQuery"
)
