// Package report formats summary statistics from a collection run, either
// as an aligned table for terminal output or as JSON for machine
// consumption.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

// CollectionReport captures summary statistics from one collection run.
type CollectionReport struct {
	TotalCollected     int
	DuplicatesSkipped  int
	FilteredOut        int
	Errors             int
	DurationSeconds    float64
	StartTime          *time.Time
	EndTime            *time.Time
}

// Throughput returns ads collected per second, or 0 when duration is zero.
func (r CollectionReport) Throughput() float64 {
	if r.DurationSeconds <= 0 {
		return 0
	}
	return float64(r.TotalCollected) / r.DurationSeconds
}

// WriteTable renders the report as an aligned table to w.
func WriteTable(w io.Writer, r CollectionReport) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Total collected", r.TotalCollected},
		{"Duplicates skipped", r.DuplicatesSkipped},
		{"Filtered out", r.FilteredOut},
		{"Errors", r.Errors},
		{"Duration", fmt.Sprintf("%.2fs", r.DurationSeconds)},
	})
	if r.DurationSeconds > 0 {
		t.AppendRow(table.Row{"Throughput", fmt.Sprintf("%.2f ads/s", r.Throughput())})
	}
	if r.StartTime != nil {
		t.AppendRow(table.Row{"Start time", r.StartTime.Format(time.RFC3339)})
	}
	if r.EndTime != nil {
		t.AppendRow(table.Row{"End time", r.EndTime.Format(time.RFC3339)})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// FormatJSON renders the report as an indented JSON string.
func FormatJSON(r CollectionReport) (string, error) {
	payload := map[string]any{
		"total_collected":    r.TotalCollected,
		"duplicates_skipped": r.DuplicatesSkipped,
		"filtered_out":       r.FilteredOut,
		"errors":             r.Errors,
		"duration_seconds":   r.DurationSeconds,
	}
	if r.StartTime != nil {
		payload["start_time"] = r.StartTime.Format(time.RFC3339)
	}
	if r.EndTime != nil {
		payload["end_time"] = r.EndTime.Format(time.RFC3339)
	}

	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal collection report: %w", err)
	}
	return string(b), nil
}
