// Package reportio writes the ad records a search yields out to a file or
// stream, in one of four formats. It sits outside the collection engine
// entirely: it never touches a Session, a Collector, or a SearchIterator,
// only the models.Ad values the engine already produced, per §1's split
// between the core and its output adapters.
package reportio

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"adlibrary-collector/internal/models"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Format names accepted by NewWriter.
const (
	FormatJSONL = "jsonl"
	FormatJSON  = "json"
	FormatCSV   = "csv"
	FormatTable = "table"
)

// Writer accepts ads one at a time as a search iterator yields them and
// serializes them to an underlying stream. Formats that can't be emitted
// incrementally (json, table) buffer until Close.
type Writer interface {
	WriteAd(models.Ad) error
	Close() error
}

// NewWriter constructs the Writer for the named format. An unrecognized
// format is reported here rather than after ads have already been
// collected.
func NewWriter(format string, w io.Writer) (Writer, error) {
	switch format {
	case FormatJSONL:
		return &jsonlWriter{enc: json.NewEncoder(w)}, nil
	case FormatJSON:
		return &jsonWriter{w: w}, nil
	case FormatCSV:
		return &csvWriter{w: csv.NewWriter(w)}, nil
	case FormatTable:
		return &tableWriter{w: w}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

type jsonlWriter struct {
	enc *json.Encoder
}

func (j *jsonlWriter) WriteAd(ad models.Ad) error {
	if err := j.enc.Encode(ad); err != nil {
		return fmt.Errorf("encode ad: %w", err)
	}
	return nil
}

func (j *jsonlWriter) Close() error { return nil }

type jsonWriter struct {
	w   io.Writer
	ads []models.Ad
}

func (j *jsonWriter) WriteAd(ad models.Ad) error {
	j.ads = append(j.ads, ad)
	return nil
}

func (j *jsonWriter) Close() error {
	b, err := json.MarshalIndent(j.ads, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ads: %w", err)
	}
	if _, err := j.w.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("write ads: %w", err)
	}
	return nil
}

// csvColumns is the fixed, flattened column set a row covers. RawData and
// the demographic/region distributions don't fit a flat row and are left
// to the json/jsonl formats.
var csvColumns = []string{
	"id", "ad_library_id", "page_id", "page_name", "is_active", "ad_status",
	"delivery_start_time", "delivery_stop_time", "snapshot_url",
	"impressions_lower", "impressions_upper", "spend_lower", "spend_upper",
	"currency", "ad_type", "publisher_platforms", "languages",
	"funding_entity", "disclaimer", "collected_at",
}

type csvWriter struct {
	w           *csv.Writer
	wroteHeader bool
}

func (c *csvWriter) WriteAd(ad models.Ad) error {
	if !c.wroteHeader {
		if err := c.w.Write(csvColumns); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
		c.wroteHeader = true
	}
	if err := c.w.Write(adToRow(ad)); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	return nil
}

func (c *csvWriter) Close() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func adToRow(ad models.Ad) []string {
	pageID, pageName := "", ""
	if ad.Page != nil {
		pageID, pageName = ad.Page.ID, ad.Page.Name
	}

	var impLower, impUpper, spendLower, spendUpper string
	if ad.Impressions != nil {
		impLower = int64PtrString(ad.Impressions.LowerBound)
		impUpper = int64PtrString(ad.Impressions.UpperBound)
	}
	if ad.Spend != nil {
		spendLower = int64PtrString(ad.Spend.LowerBound)
		spendUpper = int64PtrString(ad.Spend.UpperBound)
	}

	return []string{
		ad.ID,
		ad.AdLibraryID,
		pageID,
		pageName,
		boolPtrString(ad.IsActive),
		ad.AdStatus,
		timePtrString(ad.DeliveryStartTime),
		timePtrString(ad.DeliveryStopTime),
		ad.SnapshotURL,
		impLower,
		impUpper,
		spendLower,
		spendUpper,
		ad.Currency,
		ad.AdType,
		strings.Join(ad.PublisherPlatforms, ";"),
		strings.Join(ad.Languages, ";"),
		ad.FundingEntity,
		ad.Disclaimer,
		ad.CollectedAt.Format(time.RFC3339),
	}
}

func int64PtrString(p *int64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatInt(*p, 10)
}

func boolPtrString(p *bool) string {
	if p == nil {
		return ""
	}
	return strconv.FormatBool(*p)
}

func timePtrString(p *time.Time) string {
	if p == nil {
		return ""
	}
	return p.Format(time.RFC3339)
}

type tableWriter struct {
	w   io.Writer
	ads []models.Ad
}

func (t *tableWriter) WriteAd(ad models.Ad) error {
	t.ads = append(t.ads, ad)
	return nil
}

func (t *tableWriter) Close() error {
	tw := table.NewWriter()
	tw.SetOutputMirror(t.w)
	tw.AppendHeader(table.Row{"ID", "Page", "Platforms"})
	for _, ad := range t.ads {
		pageName := ""
		if ad.Page != nil {
			pageName = ad.Page.Name
		}
		tw.AppendRow(table.Row{ad.ID, pageName, strings.Join(ad.PublisherPlatforms, ",")})
	}
	tw.SetStyle(table.StyleRounded)
	tw.Render()
	return nil
}
