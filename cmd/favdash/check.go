package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/favdash/internal/culler"
	"github.com/nikbrunner/favdash/internal/logging"
	"github.com/nikbrunner/favdash/internal/model"
	"github.com/nikbrunner/favdash/internal/source"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Checks links for dead or unreachable URLs.",
	Long: `Requests every link (HEAD, falling back to GET) and reports the ones that
are gone (404/410) or could not be reached. Hosts in check.exclude_domains
often answer 404 to logged-out visitors; their misses are reported as
unreachable rather than dead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		folder, _ := cmd.Flags().GetString("folder")
		asJSON, _ := cmd.Flags().GetBool("json")
		all, _ := cmd.Flags().GetBool("all")
		concurrency, _ := cmd.Flags().GetInt("concurrency")

		return withEnv(func(ctx context.Context, e *env) error {
			if _, err := e.cache.Load(ctx, false); err != nil {
				return err
			}

			var links []model.Link
			if folder != "" {
				if e.cache.Folder(folder) == nil {
					return describe(fmt.Errorf("folder %q: %w", folder, source.ErrNotFound))
				}
				links = e.cache.BookmarksInFolder(folder)
			} else {
				links = e.cache.AllLinks()
			}
			if len(links) == 0 {
				fmt.Println("No links to check.")
				return nil
			}

			opts := culler.Options{
				Concurrency:    e.cfg.Check.Concurrency,
				Timeout:        e.cfg.Check.Timeout,
				ExcludeDomains: e.cfg.Check.ExcludeDomains,
				Logger:         logging.Log,
			}
			if concurrency > 0 {
				opts.Concurrency = concurrency
			}

			results := culler.Check(ctx, links, opts, func(completed, total int) {
				fmt.Fprintf(os.Stderr, "\rChecked %d/%d", completed, total)
			})
			fmt.Fprintln(os.Stderr)

			summary := culler.Summarize(results)
			if !all {
				results = problems(results)
			}
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}

			printResults(results, summary)
			return nil
		})
	},
}

// problems keeps the results that are not healthy.
func problems(results []culler.Result) []culler.Result {
	out := []culler.Result{}
	for _, r := range results {
		if r.Status != culler.Healthy {
			out = append(out, r)
		}
	}
	return out
}

func printResults(results []culler.Result, s culler.Summary) {
	if len(results) > 0 {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "STATUS\tCODE\tTITLE\tURL\tREASON\t")
		for _, r := range results {
			code := "-"
			if r.StatusCode > 0 {
				code = fmt.Sprint(r.StatusCode)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n", r.Status, code, r.Link.Title, r.Link.URL, r.Error)
		}
		w.Flush()
		fmt.Println()
	}

	fmt.Printf("%d healthy, %d dead, %d unreachable\n", s.Healthy, s.Dead, s.Unreachable)
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringP("folder", "f", "", "Only check the links directly in this folder")
	checkCmd.Flags().Bool("json", false, "Print results as JSON")
	checkCmd.Flags().Bool("all", false, "Include healthy links in the output")
	checkCmd.Flags().IntP("concurrency", "c", 0, "Parallel requests (default from config)")
}
