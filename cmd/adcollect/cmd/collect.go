package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"adlibrary-collector/internal/models"

	"github.com/spf13/cobra"
)

var collectFlags struct {
	outputPath string
}

func init() {
	rootCmd.AddCommand(collectCmd)
	collectCmd.Flags().StringVar(&collectFlags.outputPath, "output", "ads.json", "output JSON file path")
}

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect ads and save them to a JSON file along with run metadata.",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newCollector()
		if err != nil {
			return fmt.Errorf("construct collector: %w", err)
		}
		defer c.Close()

		params := buildSearchParams()
		it, err := c.Search(cmd.Context(), params)
		if err != nil {
			return fmt.Errorf("start search: %w", err)
		}

		var ads []models.Ad
		for {
			ad, ok, err := it.Next(cmd.Context())
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}
			if !ok {
				break
			}
			ads = append(ads, ad)
		}

		if err := os.MkdirAll(filepath.Dir(collectFlags.outputPath), 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}

		s := c.Stats()
		output := map[string]any{
			"metadata": map[string]any{
				"query":        params.Query,
				"country":      params.Country,
				"ad_type":      params.AdType,
				"status":       params.Status,
				"collected_at": time.Now().UTC().Format(time.RFC3339),
				"total_count":  len(ads),
				"stats":        s,
			},
			"ads": ads,
		}

		f, err := os.Create(collectFlags.outputPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()

		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(output); err != nil {
			return fmt.Errorf("encode output: %w", err)
		}

		fmt.Fprintf(os.Stderr, "saved %d ads to %s\n", len(ads), collectFlags.outputPath)
		return printReport(c)
	},
}

