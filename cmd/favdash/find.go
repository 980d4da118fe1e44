package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/favdash/internal/browser"
	"github.com/nikbrunner/favdash/internal/model"
	"github.com/nikbrunner/favdash/internal/picker"
	"github.com/nikbrunner/favdash/internal/search"
)

// findCmd represents the find command
var findCmd = &cobra.Command{
	Use:   "find <query>",
	Short: "Fuzzy find a bookmark and open it.",
	Long: `Fuzzy matches the query against bookmark titles. A single match opens
right away; several show a picker. Without fuzzy matches, bookmarks whose
URL, domain or folder contain the query are offered instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		printOnly, _ := cmd.Flags().GetBool("print")
		query := strings.Join(args, " ")

		return withEnv(func(ctx context.Context, e *env) error {
			if _, err := e.cache.Load(ctx, false); err != nil {
				return err
			}

			results := findLinks(e.cache.AllLinks(), query)
			if len(results) == 0 {
				fmt.Printf("No bookmarks found for '%s'\n", query)
				return nil
			}

			var link model.Link
			if len(results) == 1 {
				link = results[0].Link
			} else {
				selected, ok, err := picker.Run(results, query)
				if err != nil {
					return fmt.Errorf("running picker: %w", err)
				}
				if !ok {
					return nil
				}
				link = selected
			}

			if printOnly {
				fmt.Println(link.URL)
				return nil
			}
			fmt.Printf("Opening: %s\n", link.Title)
			return browser.Open(link.URL)
		})
	},
}

// findLinks ranks fuzzy title matches and falls back to substring matches.
func findLinks(links []model.Link, query string) []search.Result {
	if results := search.FuzzySearch(links, query); len(results) > 0 {
		return results
	}

	var results []search.Result
	for _, l := range search.Filter(links, query) {
		results = append(results, search.Result{Link: l})
	}
	return results
}

func init() {
	rootCmd.AddCommand(findCmd)
	findCmd.Flags().BoolP("print", "p", false, "Print the URL instead of opening it")
}
