package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/favdash/internal/exporter"
	"github.com/nikbrunner/favdash/internal/importer"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file.html>",
	Short: "Imports bookmarks from a Netscape HTML export into the library.",
	Long: `Imports bookmarks from the HTML file browsers produce with "Export
bookmarks". Folders are merged by name; links whose URL is already in the
library are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(func(ctx context.Context, e *env) error {
			if err := e.requireLibrary(); err != nil {
				return describe(err)
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening file: %w", err)
			}
			defer file.Close()

			folders, bookmarks, err := importer.ParseHTMLBookmarks(file)
			if err != nil {
				return fmt.Errorf("parsing HTML: %w", err)
			}

			added, skipped, err := e.library.Import(ctx, folders, bookmarks)
			if err != nil {
				return err
			}

			fmt.Printf("Imported %d bookmarks, %d folders", added, len(folders))
			if skipped > 0 {
				fmt.Printf(" (%d duplicates skipped)", skipped)
			}
			fmt.Println()
			return nil
		})
	},
}

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [path]",
	Short: "Exports bookmarks to a Netscape HTML file.",
	Long: `Exports bookmarks to an HTML file any browser can import. The default
path is ~/Downloads/bookmarks-export-YYYY-MM-DD.html. Browser sources are
exported with their top-level folders as they are.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outputPath := ""
		if len(args) == 1 {
			outputPath = args[0]
		}
		if outputPath == "" {
			var err error
			if outputPath, err = exporter.DefaultExportPath(); err != nil {
				return fmt.Errorf("getting default export path: %w", err)
			}
		}

		return withEnv(func(ctx context.Context, e *env) error {
			var html string
			var links, folders int

			if e.library != nil {
				store, err := e.library.Store(ctx)
				if err != nil {
					return err
				}
				html = exporter.ExportHTML(store)
				links, folders = len(store.Bookmarks), len(store.Folders)
			} else {
				raw, err := e.src.Fetch(ctx)
				if err != nil {
					return err
				}
				html = exporter.ExportTree(raw.Tree)
				links, folders = raw.TotalBookmarks, raw.TotalFolders
			}

			if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(outputPath, []byte(html), 0o644); err != nil {
				return fmt.Errorf("writing file: %w", err)
			}

			fmt.Printf("Exported %d bookmarks, %d folders to %s\n", links, folders, outputPath)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
}
