package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints bookmark totals and the most bookmarked sites.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		top, _ := cmd.Flags().GetInt("top")

		return withEnv(func(ctx context.Context, e *env) error {
			snap, err := e.cache.Load(ctx, false)
			if err != nil {
				return err
			}
			stats := snap.Stats()

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintf(w, "SOURCE\t%s\t\n", e.cfg.Source)
			fmt.Fprintf(w, "LINKS\t%d\t\n", stats.TotalBookmarks)
			fmt.Fprintf(w, "FOLDERS\t%d\t\n", stats.TotalFolders)
			fmt.Fprintf(w, "SYNCED\t%s\t\n", stats.LastSync.Format(time.DateTime))

			sites := e.cache.TopSites(top)
			if len(sites) > 0 {
				fmt.Fprintln(w, " \t \t")
				fmt.Fprintln(w, "SITE\tLINKS\t")
				for _, s := range sites {
					fmt.Fprintf(w, "%s\t%d\t\n", s.Site, s.Count)
				}
			}

			return w.Flush()
		})
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().IntP("top", "n", 10, "Number of top sites to list (0 for all)")
}
