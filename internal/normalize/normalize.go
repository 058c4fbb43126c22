// Package normalize turns a loosely-typed GraphQL response fragment into a
// models.Ad, tolerating the three creative-content dialects and the
// camelCase/snake_case key drift documented in §4.5.
package normalize

import (
	"strconv"
	"strings"
	"time"

	"adlibrary-collector/internal/models"
)

// raw is the per-ad JSON fragment as decoded by encoding/json: maps, slices,
// strings, float64s, bools, and nils.
type raw = map[string]any

// firstKey returns the first present, non-nil value among the given keys,
// tried in order. This is the declarative alias-priority mechanism called
// for by the Design Note on dynamic key dialects: adding a new alias for a
// drifted key name is a one-line addition to a keys list, not a new
// conditional branch.
func firstKey(m raw, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asMap(v any) raw {
	m, _ := v.(raw)
	return m
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func asInt64Ptr(v any) *int64 {
	f, ok := asFloat(v)
	if !ok {
		return nil
	}
	n := int64(f)
	return &n
}

func asIntPtr(v any) *int {
	f, ok := asFloat(v)
	if !ok {
		return nil
	}
	n := int(f)
	return &n
}

func asBoolPtr(v any) *bool {
	b, ok := v.(bool)
	if !ok {
		return nil
	}
	return &b
}

func asStringSlice(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return []string{t}
	default:
		return nil
	}
}

// extractBodyText reads the "body" field, which is either a plain string or
// a {"text": "..."} dict depending on which API surface produced it.
func extractBodyText(v any) string {
	switch t := v.(type) {
	case raw:
		return asString(t["text"])
	case string:
		return t
	default:
		return ""
	}
}

func parsePageInfo(data raw) *models.PageInfo {
	pageData := asMap(firstKey(data, "page", "pageInfo"))
	if len(pageData) > 0 {
		var profilePictureURL string
		if pic := asMap(pageData["profile_picture"]); pic != nil {
			profilePictureURL = asString(pic["uri"])
		}
		return &models.PageInfo{
			ID:                asString(pageData["id"]),
			Name:              asString(pageData["name"]),
			ProfilePictureURL: profilePictureURL,
			PageURL:           asString(pageData["url"]),
		}
	}

	id := asString(firstKey(data, "page_id"))
	name := asString(firstKey(data, "page_name"))
	if id == "" && name == "" {
		return nil
	}
	return &models.PageInfo{
		ID:                id,
		Name:              name,
		ProfilePictureURL: asString(firstKey(data, "page_profile_picture_url")),
		PageURL:           asString(firstKey(data, "page_profile_uri")),
		Likes:             asInt64Ptr(firstKey(data, "page_like_count")),
	}
}

func parseCreativesFromCards(cards []any, data raw) []models.AdCreative {
	out := make([]models.AdCreative, 0, len(cards))
	for _, c := range cards {
		card := asMap(c)
		out = append(out, models.AdCreative{
			Body:         extractBodyText(card["body"]),
			Caption:      firstNonEmpty(asString(card["caption"]), asString(data["caption"])),
			Description:  asString(card["link_description"]),
			Title:        asString(card["title"]),
			LinkURL:      asString(card["link_url"]),
			ImageURL:     firstNonEmpty(asString(card["resized_image_url"]), asString(card["original_image_url"])),
			VideoURL:     firstNonEmpty(asString(card["video_hd_url"]), asString(card["video_sd_url"])),
			VideoHDURL:   asString(card["video_hd_url"]),
			VideoSDURL:   asString(card["video_sd_url"]),
			ThumbnailURL: asString(card["video_preview_image_url"]),
			CTAText:      firstNonEmpty(asString(card["cta_text"]), asString(data["cta_text"])),
			CTAType:      asString(card["cta_type"]),
		})
	}
	return out
}

func parseCreativesFlat(data raw) []models.AdCreative {
	videos := asSlice(data["videos"])
	images := asSlice(data["images"])

	var firstVideo, firstImage raw
	if len(videos) > 0 {
		firstVideo = asMap(videos[0])
	}
	if len(images) > 0 {
		firstImage = asMap(images[0])
	}

	videoHD := asString(firstVideo["video_hd_url"])
	videoSD := asString(firstVideo["video_sd_url"])

	return []models.AdCreative{{
		Body:         extractBodyText(data["body"]),
		Caption:      asString(data["caption"]),
		Description:  asString(data["link_description"]),
		Title:        asString(data["title"]),
		LinkURL:      asString(data["link_url"]),
		ImageURL:     firstNonEmpty(asString(firstImage["original_image_url"]), asString(firstImage["resized_image_url"])),
		VideoURL:     firstNonEmpty(videoHD, videoSD),
		VideoHDURL:   videoHD,
		VideoSDURL:   videoSD,
		ThumbnailURL: asString(firstVideo["video_preview_image_url"]),
		CTAText:      asString(data["cta_text"]),
		CTAType:      asString(data["cta_type"]),
	}}
}

func parseCreativesLegacy(data raw) []models.AdCreative {
	bodies := asStringSlice(firstKey(data, "ad_creative_bodies", "adCreativeBodies"))
	captions := asStringSlice(firstKey(data, "ad_creative_link_captions", "adCreativeLinkCaptions"))
	descriptions := asStringSlice(firstKey(data, "ad_creative_link_descriptions", "adCreativeLinkDescriptions"))
	titles := asStringSlice(firstKey(data, "ad_creative_link_titles", "adCreativeLinkTitles"))

	maxCreatives := len(bodies)
	if len(titles) > maxCreatives {
		maxCreatives = len(titles)
	}
	if maxCreatives < 1 {
		maxCreatives = 1
	}

	at := func(s []string, i int) string {
		if i < len(s) {
			return s[i]
		}
		return ""
	}

	creatives := make([]models.AdCreative, maxCreatives)
	for i := range creatives {
		creatives[i] = models.AdCreative{
			Body:        at(bodies, i),
			Caption:     at(captions, i),
			Description: at(descriptions, i),
			Title:       at(titles, i),
		}
	}

	snapshot := asMap(data["snapshot"])
	snapCards := asSlice(snapshot["cards"])
	for i := range creatives {
		if i >= len(snapCards) {
			break
		}
		card := asMap(snapCards[i])
		creatives[i].ImageURL = firstNonEmpty(asString(card["resized_image_url"]), asString(card["original_image_url"]))
		creatives[i].VideoHDURL = asString(card["video_hd_url"])
		creatives[i].VideoSDURL = asString(card["video_sd_url"])
		creatives[i].VideoURL = firstNonEmpty(creatives[i].VideoHDURL, creatives[i].VideoSDURL)
		creatives[i].LinkURL = asString(card["link_url"])
		creatives[i].CTAText = asString(card["cta_text"])
		creatives[i].CTAType = asString(card["cta_type"])
	}

	return creatives
}

// parseCreatives dispatches across the three dialects named in §4.5: a
// cards array (carousel ads), flat top-level fields (the live API's
// primary shape), or legacy parallel arrays with an optional
// snapshot.cards media overlay.
func parseCreatives(data raw) []models.AdCreative {
	if cards := asSlice(data["cards"]); len(cards) > 0 {
		return parseCreativesFromCards(cards, data)
	}

	hasFlatFields := data["body"] != nil || data["title"] != nil || data["videos"] != nil || data["images"] != nil
	if hasFlatFields {
		return parseCreativesFlat(data)
	}

	return parseCreativesLegacy(data)
}

func parseTimestamp(v any) *time.Time {
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		tm := time.Unix(int64(t), 0).UTC()
		return &tm
	case string:
		s := strings.ReplaceAll(t, "Z", "+00:00")
		tm, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil
		}
		tm = tm.UTC()
		return &tm
	default:
		return nil
	}
}

func parseImpressionRange(v any) *models.ImpressionRange {
	switch t := v.(type) {
	case string:
		lower, upper := parseImpressionText(t)
		if lower == nil && upper == nil {
			return nil
		}
		return &models.ImpressionRange{LowerBound: lower, UpperBound: upper}
	case raw:
		lower := asInt64Ptr(firstKey(t, "lower_bound", "lowerBound"))
		upper := asInt64Ptr(firstKey(t, "upper_bound", "upperBound"))
		if lower == nil && upper == nil {
			if text := asString(firstKey(t, "impressions_text", "impressionsText")); text != "" {
				lower, upper = parseImpressionText(text)
			}
		}
		if lower == nil && upper == nil {
			return nil
		}
		return &models.ImpressionRange{LowerBound: lower, UpperBound: upper}
	default:
		return nil
	}
}

func parseReach(data raw) *models.ImpressionRange {
	return parseImpressionRange(firstKey(data, "reach", "reach_estimate"))
}

func parseSpend(data raw) *models.SpendRange {
	v := firstKey(data, "spend", "spendWithIndex")
	switch t := v.(type) {
	case string:
		lower, upper := parseSpendString(t)
		if lower == nil && upper == nil {
			return nil
		}
		return &models.SpendRange{LowerBound: lower, UpperBound: upper, Currency: asString(data["currency"])}
	case raw:
		return &models.SpendRange{
			LowerBound: asInt64Ptr(firstKey(t, "lower_bound", "lowerBound")),
			UpperBound: asInt64Ptr(firstKey(t, "upper_bound", "upperBound")),
			Currency:   asString(data["currency"]),
		}
	default:
		return nil
	}
}

func parseAudienceDistribution(items []any, categoryOf func(raw) string) []models.AudienceDistribution {
	out := make([]models.AudienceDistribution, 0, len(items))
	for _, item := range items {
		m := asMap(item)
		if m == nil {
			continue
		}
		pct, _ := asFloat(m["percentage"])
		out = append(out, models.AudienceDistribution{
			Category:   categoryOf(m),
			Percentage: pct,
		})
	}
	return out
}

func parsePlatforms(data raw) []string {
	v := firstKey(data, "publisher_platforms", "publisherPlatforms", "publisher_platform")
	if v == nil {
		return nil
	}
	return asStringSlice(v)
}

func parseActiveStatus(data raw) *bool {
	if v := firstKey(data, "is_active", "isActive"); v != nil {
		return asBoolPtr(v)
	}
	status := asString(firstKey(data, "ad_status", "adStatus"))
	if status == "" {
		return nil
	}
	active := status == "ACTIVE"
	return &active
}

// FromGraphQLResponse normalizes one ad fragment from any of the response
// dialects described in §4.5. It never fails outright: fields with
// unexpected shapes are left absent rather than propagating a type error.
// A fragment with no identifier still yields an Ad, with an empty ID;
// the collector drops those.
func FromGraphQLResponse(data map[string]any) models.Ad {
	page := parsePageInfo(data)
	pageCategories := asStringSlice(data["page_categories"])

	estimated := asMap(firstKey(data, "estimated_audience_size"))
	var estLower, estUpper *int64
	if estimated != nil {
		estLower = asInt64Ptr(estimated["lower_bound"])
		estUpper = asInt64Ptr(estimated["upper_bound"])
	}

	id := firstNonEmpty(
		asString(data["id"]),
		asString(data["adArchiveID"]),
		asString(data["ad_archive_id"]),
	)

	ad := models.Ad{
		ID:                id,
		AdLibraryID:       asString(firstKey(data, "adLibraryID", "ad_library_id")),
		Page:              page,
		IsActive:          parseActiveStatus(data),
		AdStatus:          asString(firstKey(data, "ad_status", "adStatus")),
		DeliveryStartTime: parseTimestamp(firstKey(data, "ad_delivery_start_time", "startDate", "start_date")),
		DeliveryStopTime:  parseTimestamp(firstKey(data, "ad_delivery_stop_time", "endDate", "end_date")),
		Creatives:         parseCreatives(data),
		SnapshotURL:       asString(firstKey(data, "snapshot_url", "snapshotUrl")),
		AdSnapshotURL:     asString(firstKey(data, "ad_snapshot_url", "adSnapshotUrl")),
		Impressions:       parseImpressionRange(firstKey(data, "impressions", "impressionsWithIndex", "impressions_with_index")),
		Spend:             parseSpend(data),
		Reach:             parseReach(data),
		Currency:          asString(data["currency"]),
		AgeGenderDistribution: parseAudienceDistribution(
			asSlice(firstKey(data, "demographic_distribution", "demographicDistribution")),
			func(m raw) string {
				return firstNonEmpty(asString(m["age"]), "unknown") + "_" + firstNonEmpty(asString(m["gender"]), "unknown")
			},
		),
		RegionDistribution: parseAudienceDistribution(
			asSlice(firstKey(data, "delivery_by_region", "deliveryByRegion")),
			func(m raw) string {
				return firstNonEmpty(asString(m["region"]), "unknown")
			},
		),
		EstimatedAudienceSizeLower: estLower,
		EstimatedAudienceSizeUpper: estUpper,
		PublisherPlatforms:         parsePlatforms(data),
		Languages:                  asStringSlice(data["languages"]),
		Bylines:                    asStringSlice(data["bylines"]),
		FundingEntity:              asString(firstKey(data, "funding_entity", "fundingEntity")),
		Disclaimer:                 asString(data["disclaimer"]),
		AdType:                     asString(firstKey(data, "ad_type", "adType")),
		Categories:                 firstNonEmptySlice(asStringSlice(data["categories"]), pageCategories),
		BeneficiaryPayers:          asStringSlice(firstKey(data, "beneficiary_payers", "beneficiaryPayers")),
		CollationID:                asString(firstKey(data, "collation_id", "collationID")),
		CollationCount:             asIntPtr(firstKey(data, "collation_count", "collationCount")),
		RawData:                    data,
		CollectedAt:                time.Now().UTC(),
		CollectionSource:           "meta_ads_library",
	}

	return ad
}

func firstNonEmptySlice(slices ...[]string) []string {
	for _, s := range slices {
		if len(s) > 0 {
			return s
		}
	}
	return nil
}
