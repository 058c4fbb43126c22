// Package filters implements client-side post-collection filtering of
// normalized ad records. Every configured criterion is ANDed together;
// an ad missing the data a criterion needs is included rather than
// dropped, per the missing-data-inclusive policy in §8.
package filters

import (
	"strings"
	"time"

	"adlibrary-collector/internal/models"
)

// Config expresses the client-side filter criteria. Every field defaults
// to disabled (nil/empty); setting one requires ads to satisfy it to pass.
type Config struct {
	MinImpressions     *int64
	MaxImpressions     *int64
	MinSpend           *int64
	MaxSpend           *int64
	StartDate          *time.Time
	EndDate            *time.Time
	MediaType          string // "video" | "image" | "meme" | "none" | "all" | ""
	PublisherPlatforms []string
	Languages          []string
	HasVideo           *bool
	HasImage           *bool
}

// IsEmpty reports whether no filter criteria are configured, letting
// Passes take a fast path.
func (c Config) IsEmpty() bool {
	return c.MinImpressions == nil &&
		c.MaxImpressions == nil &&
		c.MinSpend == nil &&
		c.MaxSpend == nil &&
		c.StartDate == nil &&
		c.EndDate == nil &&
		c.MediaType == "" &&
		c.PublisherPlatforms == nil &&
		c.Languages == nil &&
		c.HasVideo == nil &&
		c.HasImage == nil
}

// Passes tests ad against every criterion in cfg. For range-based fields
// (impressions, spend) it uses a conservative test: min_X passes if the
// ad's upper bound could reach min_X, max_X passes if the ad's lower bound
// could stay under max_X. An ad lacking the relevant data always passes
// that criterion.
func Passes(ad models.Ad, cfg Config) bool {
	if cfg.IsEmpty() {
		return true
	}

	if cfg.MinImpressions != nil && ad.Impressions != nil && ad.Impressions.UpperBound != nil {
		if *ad.Impressions.UpperBound < *cfg.MinImpressions {
			return false
		}
	}
	if cfg.MaxImpressions != nil && ad.Impressions != nil && ad.Impressions.LowerBound != nil {
		if *ad.Impressions.LowerBound > *cfg.MaxImpressions {
			return false
		}
	}

	if cfg.MinSpend != nil && ad.Spend != nil && ad.Spend.UpperBound != nil {
		if *ad.Spend.UpperBound < *cfg.MinSpend {
			return false
		}
	}
	if cfg.MaxSpend != nil && ad.Spend != nil && ad.Spend.LowerBound != nil {
		if *ad.Spend.LowerBound > *cfg.MaxSpend {
			return false
		}
	}

	if cfg.StartDate != nil && ad.DeliveryStartTime != nil {
		if ad.DeliveryStartTime.Before(*cfg.StartDate) {
			return false
		}
	}
	if cfg.EndDate != nil && ad.DeliveryStartTime != nil {
		if ad.DeliveryStartTime.After(*cfg.EndDate) {
			return false
		}
	}

	if cfg.MediaType != "" && !strings.EqualFold(cfg.MediaType, "all") {
		hasVideo := adHasVideo(ad)
		hasImage := adHasImage(ad)
		switch strings.ToUpper(cfg.MediaType) {
		case "VIDEO":
			if !hasVideo {
				return false
			}
		case "IMAGE", "MEME":
			if !hasImage {
				return false
			}
		case "NONE":
			if hasVideo || hasImage {
				return false
			}
		}
	}

	if cfg.PublisherPlatforms != nil && len(ad.PublisherPlatforms) > 0 {
		if !intersects(cfg.PublisherPlatforms, ad.PublisherPlatforms) {
			return false
		}
	}

	if cfg.Languages != nil && len(ad.Languages) > 0 {
		if !intersects(cfg.Languages, ad.Languages) {
			return false
		}
	}

	if cfg.HasVideo != nil && *cfg.HasVideo != adHasVideo(ad) {
		return false
	}
	if cfg.HasImage != nil && *cfg.HasImage != adHasImage(ad) {
		return false
	}

	return true
}

func intersects(requested, actual []string) bool {
	set := make(map[string]struct{}, len(actual))
	for _, v := range actual {
		set[strings.ToLower(v)] = struct{}{}
	}
	for _, v := range requested {
		if _, ok := set[strings.ToLower(v)]; ok {
			return true
		}
	}
	return false
}

func adHasVideo(ad models.Ad) bool {
	for _, c := range ad.Creatives {
		if c.VideoURL != "" || c.VideoHDURL != "" || c.VideoSDURL != "" {
			return true
		}
	}
	if ad.RawData == nil {
		return false
	}
	_, ok := ad.RawData["videos"]
	return ok
}

func adHasImage(ad models.Ad) bool {
	for _, c := range ad.Creatives {
		if c.ImageURL != "" || c.ThumbnailURL != "" {
			return true
		}
	}
	if ad.RawData == nil {
		return false
	}
	_, ok := ad.RawData["images"]
	return ok
}
