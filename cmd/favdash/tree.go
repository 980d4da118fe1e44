package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/favdash/internal/model"
)

// treeCmd represents the tree command
var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Prints the folder tree with link counts.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		showIDs, _ := cmd.Flags().GetBool("ids")
		showLinks, _ := cmd.Flags().GetBool("links")

		return withEnv(func(ctx context.Context, e *env) error {
			snap, err := e.cache.Load(ctx, false)
			if err != nil {
				return err
			}
			if len(snap.Tree) == 0 {
				fmt.Println("No folders.")
				return nil
			}

			var links map[string][]model.Link
			if showLinks {
				links = make(map[string][]model.Link)
				for _, l := range snap.Links {
					links[l.ParentID] = append(links[l.ParentID], l)
				}
			}
			printTree(os.Stdout, snap.Tree, 0, showIDs, links)

			// Links outside any listed folder, e.g. at the top of the library
			for _, l := range snap.Links {
				if _, ok := links[l.ParentID]; ok {
					fmt.Println(linkLine("", l, showIDs))
				}
			}
			return nil
		})
	},
}

// printTree writes one line per folder, indented by depth. With links set,
// each folder's own links follow it.
func printTree(w io.Writer, nodes []*model.FolderNode, depth int, showIDs bool, links map[string][]model.Link) {
	for _, node := range nodes {
		indent := strings.Repeat("  ", depth)
		line := fmt.Sprintf("%s%s %s (%d)", indent, node.Icon, node.Title, node.BookmarkCount)
		if showIDs {
			line += "  [" + node.ID + "]"
		}
		fmt.Fprintln(w, line)

		if !node.IsSpecial {
			for _, l := range links[node.ID] {
				fmt.Fprintln(w, linkLine(indent+"  ", l, showIDs))
			}
			delete(links, node.ID)
		}

		printTree(w, node.Children, depth+1, showIDs, links)
	}
}

func linkLine(indent string, l model.Link, showIDs bool) string {
	line := fmt.Sprintf("%s- %s  %s", indent, l.Title, l.URL)
	if showIDs {
		line += "  [" + l.ID + "]"
	}
	return line
}

func init() {
	rootCmd.AddCommand(treeCmd)
	treeCmd.Flags().Bool("ids", false, "Show folder and link ids (for mv and rm)")
	treeCmd.Flags().Bool("links", false, "List the links of each folder")
}
