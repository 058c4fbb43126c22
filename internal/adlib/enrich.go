package adlib

import "adlibrary-collector/internal/models"

// EnrichAd merges fresh into existing, field by field, filling in only
// those fields on existing that are currently empty, zero, or absent.
// It operates on a copy and never mutates existing or fresh; if anything
// panics mid-merge it recovers and returns existing unchanged rather than
// a partially merged record, mirroring the Python source's enrich_ad
// failure-safety contract.
func EnrichAd(existing, fresh models.Ad) (result models.Ad) {
	result = existing
	defer func() {
		if recover() != nil {
			result = existing
		}
	}()

	if result.AdLibraryID == "" {
		result.AdLibraryID = fresh.AdLibraryID
	}
	result.Page = enrichPageInfo(result.Page, fresh.Page)
	if result.IsActive == nil {
		result.IsActive = fresh.IsActive
	}
	if result.AdStatus == "" {
		result.AdStatus = fresh.AdStatus
	}
	if result.DeliveryStartTime == nil {
		result.DeliveryStartTime = fresh.DeliveryStartTime
	}
	if result.DeliveryStopTime == nil {
		result.DeliveryStopTime = fresh.DeliveryStopTime
	}
	if len(result.Creatives) == 0 {
		result.Creatives = fresh.Creatives
	}
	if result.SnapshotURL == "" {
		result.SnapshotURL = fresh.SnapshotURL
	}
	if result.AdSnapshotURL == "" {
		result.AdSnapshotURL = fresh.AdSnapshotURL
	}
	if result.Impressions == nil {
		result.Impressions = fresh.Impressions
	}
	if result.Spend == nil {
		result.Spend = fresh.Spend
	}
	if result.Reach == nil {
		result.Reach = fresh.Reach
	}
	if result.Currency == "" {
		result.Currency = fresh.Currency
	}
	if len(result.AgeGenderDistribution) == 0 {
		result.AgeGenderDistribution = fresh.AgeGenderDistribution
	}
	if len(result.RegionDistribution) == 0 {
		result.RegionDistribution = fresh.RegionDistribution
	}
	if result.Targeting == nil {
		result.Targeting = fresh.Targeting
	}
	if result.EstimatedAudienceSizeLower == nil {
		result.EstimatedAudienceSizeLower = fresh.EstimatedAudienceSizeLower
	}
	if result.EstimatedAudienceSizeUpper == nil {
		result.EstimatedAudienceSizeUpper = fresh.EstimatedAudienceSizeUpper
	}
	if len(result.PublisherPlatforms) == 0 {
		result.PublisherPlatforms = fresh.PublisherPlatforms
	}
	if len(result.Languages) == 0 {
		result.Languages = fresh.Languages
	}
	if len(result.Bylines) == 0 {
		result.Bylines = fresh.Bylines
	}
	if result.FundingEntity == "" {
		result.FundingEntity = fresh.FundingEntity
	}
	if result.Disclaimer == "" {
		result.Disclaimer = fresh.Disclaimer
	}
	if result.AdType == "" {
		result.AdType = fresh.AdType
	}
	if len(result.Categories) == 0 {
		result.Categories = fresh.Categories
	}
	if len(result.BeneficiaryPayers) == 0 {
		result.BeneficiaryPayers = fresh.BeneficiaryPayers
	}
	if result.CollationID == "" {
		result.CollationID = fresh.CollationID
	}
	if result.CollationCount == nil {
		result.CollationCount = fresh.CollationCount
	}

	return result
}

// pageHintAsAd wraps a typeahead page summary as the "fresh" side of an
// EnrichAd call, so a search result's sparse Page fields can be filled from
// the richer typeahead data that resolved the page in the first place.
func pageHintAsAd(hint models.PageSearchResult) models.Ad {
	var verified bool
	if hint.PageVerified != nil {
		verified = *hint.PageVerified
	}
	return models.Ad{
		Page: &models.PageInfo{
			ID:                hint.PageID,
			Name:              hint.PageName,
			ProfilePictureURL: hint.PageLogoURL,
			PageURL:           hint.PageProfileURI,
			Likes:             hint.PageLikeCount,
			Verified:          verified,
		},
	}
}

// enrichPageInfo applies the same empty-field-fill rule one level into the
// Page sub-record: a page search result's typeahead data is often more
// complete (likes, profile picture) than what a search response's ad
// fragment embeds.
func enrichPageInfo(existing, fresh *models.PageInfo) *models.PageInfo {
	if existing == nil {
		return fresh
	}
	if fresh == nil {
		return existing
	}

	merged := *existing
	if merged.ID == "" {
		merged.ID = fresh.ID
	}
	if merged.Name == "" {
		merged.Name = fresh.Name
	}
	if merged.ProfilePictureURL == "" {
		merged.ProfilePictureURL = fresh.ProfilePictureURL
	}
	if merged.PageURL == "" {
		merged.PageURL = fresh.PageURL
	}
	if merged.Likes == nil {
		merged.Likes = fresh.Likes
	}
	if !merged.Verified {
		merged.Verified = fresh.Verified
	}
	return &merged
}
