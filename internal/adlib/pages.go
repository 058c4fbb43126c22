package adlib

import (
	"context"
	"fmt"
	"strings"

	"adlibrary-collector/internal/models"
	"adlibrary-collector/internal/pipeline"
	"adlibrary-collector/internal/urlparser"

	"github.com/antzucaro/matchr"
)

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBoolPtr(v any) *bool {
	b, ok := v.(bool)
	if !ok {
		return nil
	}
	return &b
}

func asInt64Ptr(v any) *int64 {
	switch t := v.(type) {
	case float64:
		n := int64(t)
		return &n
	case int64:
		return &t
	default:
		return nil
	}
}

// SearchPages resolves a page name to candidate page summaries via the
// typeahead endpoint.
func (c *Collector) SearchPages(ctx context.Context, query, country string) ([]models.PageSearchResult, error) {
	if err := c.ensureReady(ctx); err != nil {
		return nil, err
	}

	outcome, err := c.pipeline.SearchPages(ctx, query, country)
	if err != nil {
		return nil, fmt.Errorf("search pages: %w", err)
	}

	raw := pipeline.ParseTypeaheadResponse(outcome.Data)
	results := make([]models.PageSearchResult, 0, len(raw))
	for _, pageData := range raw {
		id := asString(pageData["page_id"])
		if id == "" {
			continue
		}
		results = append(results, models.PageSearchResult{
			PageID:         id,
			PageName:       asString(pageData["page_name"]),
			PageProfileURI: asString(pageData["page_profile_uri"]),
			PageAlias:      asString(pageData["page_alias"]),
			PageLogoURL:    asString(pageData["page_logo_url"]),
			PageVerified:   asBoolPtr(pageData["page_verified"]),
			PageLikeCount:  asInt64Ptr(pageData["page_like_count"]),
			Category:       asString(pageData["category"]),
		})
	}
	return results, nil
}

// resolvePageByName picks the typeahead candidate whose name best matches
// query by Jaro-Winkler similarity, rather than blindly taking the first
// result the endpoint returns.
func resolvePageByName(query string, candidates []models.PageSearchResult) (models.PageSearchResult, bool) {
	if len(candidates) == 0 {
		return models.PageSearchResult{}, false
	}

	needle := strings.ToLower(query)
	best := candidates[0]
	bestScore := matchr.JaroWinkler(needle, strings.ToLower(best.PageName), true)

	for _, candidate := range candidates[1:] {
		score := matchr.JaroWinkler(needle, strings.ToLower(candidate.PageName), true)
		if score > bestScore {
			best = candidate
			bestScore = score
		}
	}
	return best, true
}

// CollectByPageID streams every ad for a known numeric page id.
func (c *Collector) CollectByPageID(ctx context.Context, pageID string, params SearchParams) (*SearchIterator, error) {
	params.SearchType = SearchPage
	params.PageIDs = []string{pageID}
	return c.Search(ctx, params)
}

// CollectByPageURL extracts a page id from a Facebook URL and streams its
// ads. If the URL is a vanity URL that cannot be resolved without a
// network call, it returns an error wrapping ErrInvalidParameter.
func (c *Collector) CollectByPageURL(ctx context.Context, pageURL string, params SearchParams) (*SearchIterator, error) {
	pageID, ok := urlparser.ExtractPageID(pageURL)
	if !ok {
		return nil, &InvalidParameterError{
			Field:   "url",
			Value:   pageURL,
			Allowed: []string{"a Facebook URL with a resolvable numeric page id; use SearchPages for vanity URLs"},
		}
	}
	return c.CollectByPageID(ctx, pageID, params)
}

// CollectByPageName resolves a page name via the typeahead endpoint, picks
// the best Jaro-Winkler match, and streams that page's ads.
func (c *Collector) CollectByPageName(ctx context.Context, pageName string, params SearchParams) (*SearchIterator, error) {
	country := params.Country
	if country == "" {
		country = "US"
	}

	candidates, err := c.SearchPages(ctx, pageName, country)
	if err != nil {
		return nil, err
	}
	best, ok := resolvePageByName(pageName, candidates)
	if !ok {
		return nil, fmt.Errorf("no pages found for name %q", pageName)
	}

	c.tel.ReportDebug("pages.resolve", best.PageID, best.PageName)
	it, err := c.CollectByPageID(ctx, best.PageID, params)
	if err != nil {
		return nil, err
	}
	it.pageHint = &best
	return it, nil
}
