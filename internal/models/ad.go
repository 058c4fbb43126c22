// Package models holds the canonical record shapes produced by a
// collection run, independent of whichever GraphQL response dialect they
// were normalized from.
package models

import "time"

// SpendRange is an ad's reported spend range, present only on political and
// issue ads. A nil LowerBound/UpperBound pair means the range was never
// reported, not that spend was zero.
type SpendRange struct {
	LowerBound *int64
	UpperBound *int64
	Currency   string
}

// ImpressionRange is an ad's reported impression or reach count range.
type ImpressionRange struct {
	LowerBound *int64
	UpperBound *int64
}

// AudienceDistribution is one bucket of a demographic or geographic
// breakdown, expressed as a percentage of total delivery.
type AudienceDistribution struct {
	Category   string
	Percentage float64
}

// AdCreative is one piece of creative content belonging to an ad. Ads with
// multiple cards (carousels) normalize to multiple AdCreative values.
type AdCreative struct {
	Body         string
	Caption      string
	Description  string
	Title        string
	LinkURL      string
	ImageURL     string
	VideoURL     string
	VideoHDURL   string
	VideoSDURL   string
	ThumbnailURL string
	CTAText      string
	CTAType      string
}

// PageInfo identifies the page that ran an ad.
type PageInfo struct {
	ID                string
	Name              string
	ProfilePictureURL string
	PageURL           string
	Likes             *int64
	Verified          bool
}

// PageSearchResult is one typeahead match returned when resolving a page
// name to an id.
type PageSearchResult struct {
	PageID          string
	PageName        string
	PageProfileURI  string
	PageAlias       string
	PageLogoURL     string
	PageVerified    *bool
	PageLikeCount   *int64
	Category        string
}

// TargetingInfo is an ad's reported audience targeting configuration,
// present only where the remote service discloses it.
type TargetingInfo struct {
	AgeMin            *int
	AgeMax            *int
	Genders           []string
	Locations         []string
	LocationTypes     []string
	Interests         []string
	ExcludedLocations []string
}

// Ad is the canonical, fully normalized ad record produced regardless of
// which of the three response dialects it was parsed from (§4.5).
type Ad struct {
	ID           string
	AdLibraryID  string

	Page *PageInfo

	// IsActive is nil when the response gave no status signal at all,
	// distinguishing "unknown" from "known inactive".
	IsActive *bool
	AdStatus string

	DeliveryStartTime *time.Time
	DeliveryStopTime  *time.Time

	Creatives []AdCreative

	SnapshotURL    string
	AdSnapshotURL  string

	Impressions *ImpressionRange
	Spend       *SpendRange
	Reach       *ImpressionRange
	Currency    string

	AgeGenderDistribution []AudienceDistribution
	RegionDistribution    []AudienceDistribution

	Targeting                  *TargetingInfo
	EstimatedAudienceSizeLower *int64
	EstimatedAudienceSizeUpper *int64

	PublisherPlatforms []string
	Languages          []string

	Bylines        []string
	FundingEntity  string
	Disclaimer     string

	AdType     string
	Categories []string

	BeneficiaryPayers []string

	CollationID    string
	CollationCount *int

	// RawData is the untouched decoded response fragment this ad was
	// normalized from, kept for debugging and for fields no normalizer
	// field yet covers.
	RawData map[string]any

	CollectedAt      time.Time
	CollectionSource string
}

// SearchResult is one page of a paginated ad search.
type SearchResult struct {
	Ads         []Ad
	TotalCount  *int64
	HasNextPage bool
	EndCursor   string
	SearchID    string
}
