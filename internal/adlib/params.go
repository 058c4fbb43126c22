package adlib

import (
	"strings"

	"adlibrary-collector/internal/filters"
)

// SearchParams is the public search request shape (§6, external
// interfaces): keyword/page query plus the filter and pagination knobs
// the remote endpoint accepts.
type SearchParams struct {
	Query      string
	Country    string
	AdType     string
	Status     string
	SearchType string
	PageIDs    []string
	SortBy     string
	MaxResults int // 0 means unbounded
	PageSize   int

	Filter filters.Config
}

func (p *SearchParams) applyDefaults() {
	if p.Country == "" {
		p.Country = "US"
	}
	p.Country = strings.ToUpper(p.Country)
	if p.AdType == "" {
		p.AdType = AdTypeAll
	}
	if p.Status == "" {
		p.Status = StatusActive
	}
	if p.SearchType == "" {
		p.SearchType = SearchKeyword
	}
	if p.PageSize == 0 {
		p.PageSize = defaultPageSize
	}
}

func (p SearchParams) validate() error {
	if _, ok := validAdTypes[p.AdType]; !ok {
		return &InvalidParameterError{Field: "ad_type", Value: p.AdType, Allowed: allowedKeys(validAdTypes)}
	}
	if _, ok := validStatuses[p.Status]; !ok {
		return &InvalidParameterError{Field: "status", Value: p.Status, Allowed: allowedKeys(validStatuses)}
	}
	if _, ok := validSearchTypes[p.SearchType]; !ok {
		return &InvalidParameterError{Field: "search_type", Value: p.SearchType, Allowed: allowedKeys(validSearchTypes)}
	}
	if _, ok := validSortModes[p.SortBy]; !ok {
		return &InvalidParameterError{Field: "sort_by", Value: p.SortBy, Allowed: allowedKeys(validSortModes)}
	}
	if len(p.Country) != 2 || !isAlpha(p.Country) {
		return &InvalidParameterError{Field: "country", Value: p.Country, Allowed: []string{"a 2-letter ISO 3166-1 alpha-2 code, e.g. US, EG"}}
	}
	return nil
}

func isAlpha(s string) bool {
	for _, c := range s {
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return true
}

func allowedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		if k == "" {
			out = append(out, "(relevancy/default)")
			continue
		}
		out = append(out, k)
	}
	return out
}
