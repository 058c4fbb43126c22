package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var pagesFlags struct {
	country string
}

func init() {
	rootCmd.AddCommand(pagesCmd)
	pagesCmd.Flags().StringVar(&pagesFlags.country, "country", "US", "2-letter country code")
}

var pagesCmd = &cobra.Command{
	Use:   "pages <name>",
	Short: "Resolve a page name to candidate page IDs via the typeahead endpoint.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newCollector()
		if err != nil {
			return fmt.Errorf("construct collector: %w", err)
		}
		defer c.Close()

		results, err := c.SearchPages(cmd.Context(), args[0], pagesFlags.country)
		if err != nil {
			return fmt.Errorf("search pages: %w", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Page ID", "Name", "Category", "Likes"})
		for _, r := range results {
			likes := ""
			if r.PageLikeCount != nil {
				likes = fmt.Sprintf("%d", *r.PageLikeCount)
			}
			t.AppendRow(table.Row{r.PageID, r.PageName, r.Category, likes})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
		return nil
	},
}
