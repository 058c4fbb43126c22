package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"adlibrary-collector/internal/tokens"
)

// SearchParams is the full variable set for one AdLibrarySearchPaginationQuery
// call (§6, external interface).
type SearchParams struct {
	Query           string
	Country         string
	AdType          string
	ActiveStatus    string
	MediaType       string
	SearchType      string
	PageIDs         []string
	Cursor          string
	First           int
	SortDirection   string
	SortMode        string // "" omits sortData, giving server-default relevancy
	SessionID       string
	CollationToken  string
}

// searchVariables builds the exact AdLibrarySearchPaginationQuery variables
// map. Uppercase enum strings and explicit empty arrays (never nulls for
// list fields) are both load-bearing: the remote endpoint rejects
// differently-shaped payloads with noncoercible_variable_value errors.
func (p *Pipeline) searchVariables(params SearchParams) map[string]any {
	pageIDs := params.PageIDs
	if pageIDs == nil {
		pageIDs = []string{}
	}

	v, _ := p.sess.Tokens.Get("v")
	if v == "" {
		v = "fbece7"
	}

	vars := map[string]any{
		"activeStatus":           params.ActiveStatus,
		"adType":                 params.AdType,
		"bylines":                []string{},
		"collationToken":         params.CollationToken,
		"contentLanguages":       []string{},
		"countries":              []string{params.Country},
		"excludedIDs":            []string{},
		"first":                  params.First,
		"isTargetedCountry":      false,
		"location":               nil,
		"mediaType":              params.MediaType,
		"multiCountryFilterMode": nil,
		"pageIDs":                pageIDs,
		"potentialReachInput":    []string{},
		"publisherPlatforms":     []string{},
		"queryString":            params.Query,
		"regions":                []string{},
		"searchType":             params.SearchType,
		"sessionID":              params.SessionID,
		"source":                 nil,
		"startDate":              nil,
		"v":                      v,
		"viewAllPageID":          "0",
	}

	if params.SortMode != "" {
		vars["sortData"] = map[string]any{
			"direction": params.SortDirection,
			"mode":      params.SortMode,
		}
	}
	if params.Cursor != "" {
		vars["cursor"] = params.Cursor
	}

	return vars
}

// adTypeURLSegment maps an ad_type enum value to its URL-friendly referer
// query parameter value.
func adTypeURLSegment(adType string) string {
	switch adType {
	case "POLITICAL_AND_ISSUE_ADS":
		return "political_and_issue_ads"
	case "HOUSING_ADS":
		return "housing"
	case "EMPLOYMENT_ADS":
		return "employment"
	case "CREDIT_ADS":
		return "credit"
	default:
		return "all"
	}
}

// SearchPage dispatches one AdLibrarySearchPaginationQuery call and returns
// the raw decoded data envelope alongside the rate-limited/session-expired
// flags the caller (internal/adlib) needs to drive its retry loop.
func (p *Pipeline) SearchPage(ctx context.Context, params SearchParams) (Outcome, error) {
	docID := p.sess.Tokens.DocID(tokens.DocQuerySearch)
	variables := p.searchVariables(params)

	outcome, err := p.Dispatch(ctx, docID, variables, tokens.DocQuerySearch)
	if err != nil {
		return Outcome{}, fmt.Errorf("search ads: %w", err)
	}
	return outcome, nil
}

// ParseSearchResponse navigates the three known response shapes for a
// search page (§4.4): the primary snake_case connection path, its
// camelCase sibling, and a raw-data fallback when neither wrapper is
// present. It also overlays each ad's "snapshot" fields onto its top level
// without clobbering already-present keys, unifying the legacy-nested and
// live-flat creative shapes before normalization ever sees them.
func ParseSearchResponse(data json.RawMessage) (ads []map[string]any, pageInfo map[string]any, nextCursor string) {
	var envelope map[string]any
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, nil, ""
	}

	results := navigateConnection(envelope)
	edgesAny, _ := results["edges"].([]any)

	pageInfo, _ = firstMapKey(results, "page_info", "pageInfo")

	if hasNextPage(pageInfo) {
		nextCursor = firstStringKey(pageInfo, "end_cursor", "endCursor")
	}

	for _, e := range edgesAny {
		edge, _ := e.(map[string]any)
		if edge == nil {
			continue
		}
		node, ok := edge["node"].(map[string]any)
		if !ok {
			node = edge
		}
		collated, _ := node["collated_results"].([]any)
		for _, c := range collated {
			adData, ok := c.(map[string]any)
			if !ok {
				continue
			}
			ads = append(ads, overlaySnapshot(adData))
		}
	}

	return ads, pageInfo, nextCursor
}

func navigateConnection(envelope map[string]any) map[string]any {
	data, _ := envelope["data"].(map[string]any)
	if data == nil {
		return map[string]any{}
	}

	if main, ok := data["ad_library_main"].(map[string]any); ok {
		if conn, ok := main["search_results_connection"].(map[string]any); ok && len(conn) > 0 {
			return conn
		}
	}
	if main, ok := data["adLibraryMain"].(map[string]any); ok {
		if conn, ok := main["searchResultsConnection"].(map[string]any); ok && len(conn) > 0 {
			return conn
		}
	}
	return data
}

func overlaySnapshot(adData map[string]any) map[string]any {
	snapshot, _ := adData["snapshot"].(map[string]any)
	if len(snapshot) == 0 {
		return adData
	}
	flattened := make(map[string]any, len(adData)+len(snapshot))
	for k, v := range adData {
		flattened[k] = v
	}
	for k, v := range snapshot {
		if _, exists := flattened[k]; !exists {
			flattened[k] = v
		}
	}
	return flattened
}

func firstMapKey(m map[string]any, keys ...string) (map[string]any, bool) {
	for _, k := range keys {
		if v, ok := m[k].(map[string]any); ok {
			return v, true
		}
	}
	return nil, false
}

func firstStringKey(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k].(string); ok {
			return v
		}
	}
	return ""
}

func hasNextPage(pageInfo map[string]any) bool {
	if v, ok := pageInfo["has_next_page"].(bool); ok {
		return v
	}
	if v, ok := pageInfo["hasNextPage"].(bool); ok {
		return v
	}
	return false
}
