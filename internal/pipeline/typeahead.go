package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"adlibrary-collector/internal/tokens"
)

// SearchPages dispatches one useAdLibraryTypeaheadSuggestionDataSourceQuery
// call, resolving page names to lightweight page summaries.
func (p *Pipeline) SearchPages(ctx context.Context, query, country string) (Outcome, error) {
	docID := p.sess.Tokens.DocID(tokens.DocQueryTypeahead)
	variables := map[string]any{
		"queryString": query,
		"country":     country,
		"adType":      "ALL",
		"isMobile":    false,
	}

	outcome, err := p.Dispatch(ctx, docID, variables, tokens.DocQueryTypeahead)
	if err != nil {
		return Outcome{}, fmt.Errorf("search pages: %w", err)
	}
	return outcome, nil
}

// ParseTypeaheadResponse extracts the flat list of page summary dicts from
// a typeahead response, tolerating the same data-envelope drift as search
// responses.
func ParseTypeaheadResponse(data json.RawMessage) []map[string]any {
	var envelope map[string]any
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil
	}
	inner, _ := envelope["data"].(map[string]any)
	if inner == nil {
		return nil
	}

	for _, v := range inner {
		container, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if pages := extractPageList(container); pages != nil {
			return pages
		}
	}
	return nil
}

func extractPageList(container map[string]any) []map[string]any {
	edges, ok := container["edges"].([]any)
	if !ok {
		return nil
	}
	var out []map[string]any
	for _, e := range edges {
		edge, ok := e.(map[string]any)
		if !ok {
			continue
		}
		node, ok := edge["node"].(map[string]any)
		if !ok {
			node = edge
		}
		out = append(out, node)
	}
	return out
}
