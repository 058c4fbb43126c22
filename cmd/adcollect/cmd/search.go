package cmd

import (
	"context"
	"fmt"
	"os"

	"adlibrary-collector/internal/adlib"
	"adlibrary-collector/internal/filters"
	"adlibrary-collector/internal/report"
	"adlibrary-collector/internal/reportio"

	"github.com/spf13/cobra"
)

var searchFlags struct {
	query              string
	country            string
	adType             string
	status             string
	searchType         string
	pageIDs            []string
	sortBy             string
	maxResults         int
	pageSize           int
	format             string
	minImpressions     int64
	maxImpressions     int64
	mediaType          string
	publisherPlatforms []string
	languages          []string
}

func init() {
	rootCmd.AddCommand(searchCmd)

	f := searchCmd.Flags()
	f.StringVar(&searchFlags.query, "query", "", "search query string")
	f.StringVar(&searchFlags.country, "country", "US", "2-letter country code")
	f.StringVar(&searchFlags.adType, "ad-type", adlib.AdTypeAll, "ad type: ALL, POLITICAL_AND_ISSUE_ADS, HOUSING_ADS, EMPLOYMENT_ADS, CREDIT_ADS")
	f.StringVar(&searchFlags.status, "status", adlib.StatusActive, "active status: ACTIVE, INACTIVE, ALL")
	f.StringVar(&searchFlags.searchType, "search-type", adlib.SearchKeyword, "search type: KEYWORD_EXACT_PHRASE, KEYWORD_UNORDERED, PAGE")
	f.StringSliceVar(&searchFlags.pageIDs, "page-id", nil, "restrict to one or more numeric page IDs (repeatable)")
	f.StringVar(&searchFlags.sortBy, "sort-by", adlib.SortImpressions, "sort mode: SORT_BY_TOTAL_IMPRESSIONS or empty for relevancy")
	f.IntVar(&searchFlags.maxResults, "max-results", 0, "stop after this many ads (0 = unbounded)")
	f.IntVar(&searchFlags.pageSize, "page-size", 0, "results requested per page (0 = default)")
	f.StringVar(&searchFlags.format, "format", "jsonl", "output format: jsonl, json, csv, table")
	f.Int64Var(&searchFlags.minImpressions, "min-impressions", 0, "filter: drop ads that could not reach this many impressions")
	f.Int64Var(&searchFlags.maxImpressions, "max-impressions", 0, "filter: drop ads that could exceed this many impressions")
	f.StringVar(&searchFlags.mediaType, "media-type", "", "filter: video, image, meme, none, or empty for no filter")
	f.StringSliceVar(&searchFlags.publisherPlatforms, "publisher-platform", nil, "filter: require one of these publisher platforms (repeatable)")
	f.StringSliceVar(&searchFlags.languages, "language", nil, "filter: require one of these languages (repeatable)")
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the Ad Library and stream matching ads to stdout.",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newCollector()
		if err != nil {
			return fmt.Errorf("construct collector: %w", err)
		}
		defer c.Close()

		it, err := c.Search(cmd.Context(), buildSearchParams())
		if err != nil {
			return fmt.Errorf("start search: %w", err)
		}

		if err := streamAds(cmd.Context(), it, searchFlags.format); err != nil {
			return err
		}

		return printReport(c)
	},
}

func buildSearchParams() adlib.SearchParams {
	var filterCfg filters.Config
	if searchFlags.minImpressions > 0 {
		filterCfg.MinImpressions = &searchFlags.minImpressions
	}
	if searchFlags.maxImpressions > 0 {
		filterCfg.MaxImpressions = &searchFlags.maxImpressions
	}
	filterCfg.MediaType = searchFlags.mediaType
	filterCfg.PublisherPlatforms = searchFlags.publisherPlatforms
	filterCfg.Languages = searchFlags.languages

	return adlib.SearchParams{
		Query:      searchFlags.query,
		Country:    searchFlags.country,
		AdType:     searchFlags.adType,
		Status:     searchFlags.status,
		SearchType: searchFlags.searchType,
		PageIDs:    searchFlags.pageIDs,
		SortBy:     searchFlags.sortBy,
		MaxResults: searchFlags.maxResults,
		PageSize:   searchFlags.pageSize,
		Filter:     filterCfg,
	}
}

func streamAds(ctx context.Context, it *adlib.SearchIterator, format string) error {
	w, err := reportio.NewWriter(format, os.Stdout)
	if err != nil {
		return err
	}

	for {
		ad, ok, err := it.Next(ctx)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		if !ok {
			break
		}
		if err := w.WriteAd(ad); err != nil {
			return err
		}
	}

	return w.Close()
}

func printReport(c *adlib.Collector) error {
	s := c.Stats()
	r := report.CollectionReport{
		TotalCollected:    int(s.AdsCollected),
		DuplicatesSkipped: int(s.DuplicatesSkipped),
		FilteredOut:       int(s.FilteredOut),
		Errors:            int(s.Errors),
		StartTime:         s.StartTime,
		EndTime:           s.EndTime,
	}
	if s.StartTime != nil && s.EndTime != nil {
		r.DurationSeconds = s.EndTime.Sub(*s.StartTime).Seconds()
	}
	report.WriteTable(os.Stderr, r)
	return nil
}
