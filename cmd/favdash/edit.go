package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// mvCmd represents the mv command
var mvCmd = &cobra.Command{
	Use:   "mv <id> <folder-id>",
	Short: "Moves a bookmark or folder into another folder.",
	Long:  "Moves a bookmark or folder into another folder. Use \"root\" for the top level. Ids are listed by `favdash tree --ids --links`.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(func(ctx context.Context, e *env) error {
			if err := e.cache.Move(ctx, args[0], args[1]); err != nil {
				return describe(err)
			}
			fmt.Printf("Moved %s to %s\n", args[0], args[1])
			return nil
		})
	},
}

// rmCmd represents the rm command
var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Deletes a bookmark, or a folder with everything in it.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(func(ctx context.Context, e *env) error {
			if err := e.cache.Delete(ctx, args[0]); err != nil {
				return describe(err)
			}
			fmt.Printf("Deleted %s\n", args[0])
			return nil
		})
	},
}

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <url> [title]",
	Short: "Adds a bookmark to the library.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		folder, _ := cmd.Flags().GetString("folder")
		title := ""
		if len(args) == 2 {
			title = args[1]
		}

		return withEnv(func(ctx context.Context, e *env) error {
			if err := e.requireLibrary(); err != nil {
				return describe(err)
			}
			b, err := e.library.CreateBookmark(ctx, title, args[0], folder)
			if err != nil {
				return describe(err)
			}
			fmt.Printf("Added %s  [%s]\n", b.Title, b.ID)
			return nil
		})
	},
}

// mkdirCmd represents the mkdir command
var mkdirCmd = &cobra.Command{
	Use:   "mkdir <title>",
	Short: "Creates a folder in the library.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parent, _ := cmd.Flags().GetString("parent")

		return withEnv(func(ctx context.Context, e *env) error {
			if err := e.requireLibrary(); err != nil {
				return describe(err)
			}
			f, err := e.library.CreateFolder(ctx, args[0], parent)
			if err != nil {
				return describe(err)
			}
			fmt.Printf("Created %s  [%s]\n", f.Title, f.ID)
			return nil
		})
	},
}

// renameCmd represents the rename command
var renameCmd = &cobra.Command{
	Use:   "rename <id> <title>",
	Short: "Renames a bookmark or folder in the library.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(func(ctx context.Context, e *env) error {
			if err := e.requireLibrary(); err != nil {
				return describe(err)
			}
			if err := e.library.Rename(ctx, args[0], args[1]); err != nil {
				return describe(err)
			}
			fmt.Printf("Renamed %s to %s\n", args[0], args[1])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(mvCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(mkdirCmd)
	rootCmd.AddCommand(renameCmd)
	addCmd.Flags().StringP("folder", "f", "", "Folder id to add the bookmark to (default top level)")
	mkdirCmd.Flags().StringP("parent", "p", "", "Parent folder id (default top level)")
}
