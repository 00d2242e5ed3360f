package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillkit/pkg/presenter"
	"github.com/jingkaihe/skillkit/pkg/skills"
)

var rootsCmd = &cobra.Command{
	Use:   "roots",
	Short: "Manage skill storage roots",
	Long:  `List, add, and remove the storage roots under which skills are discovered.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var rootsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured storage roots",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		_, repo, cleanup, err := openEnv(ctx)
		if err != nil {
			presenter.Error(err, "Failed to open settings store")
			os.Exit(1)
		}
		defer cleanup()

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "PATH\tLABEL")
		for _, root := range repo.ListRoots(ctx) {
			fmt.Fprintf(tw, "%s\t%s\n", root.Path, root.Label)
		}
		tw.Flush()
	},
}

var rootsAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Add a storage root",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		label, _ := cmd.Flags().GetString("label")

		s, _, cleanup, err := openEnv(ctx)
		if err != nil {
			presenter.Error(err, "Failed to open settings store")
			os.Exit(1)
		}
		defer cleanup()

		roots := s.StorageRoots(ctx)
		for _, root := range roots {
			if root.Path == args[0] {
				presenter.Warning(fmt.Sprintf("Storage root %s is already configured", args[0]))
				return
			}
		}

		roots = append(roots, skills.Root{Path: args[0], Label: label})
		if err := s.SetStorageRoots(ctx, roots); err != nil {
			presenter.Error(err, "Failed to save storage roots")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Added storage root %s", args[0]))
	},
}

var rootsRemoveCmd = &cobra.Command{
	Use:   "remove <path>",
	Short: "Remove a storage root",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		s, _, cleanup, err := openEnv(ctx)
		if err != nil {
			presenter.Error(err, "Failed to open settings store")
			os.Exit(1)
		}
		defer cleanup()

		roots := s.StorageRoots(ctx)
		remaining := make([]skills.Root, 0, len(roots))
		for _, root := range roots {
			if root.Path != args[0] {
				remaining = append(remaining, root)
			}
		}
		if len(remaining) == len(roots) {
			presenter.Error(errors.Errorf("storage root %s is not configured", args[0]), "Storage root not found")
			os.Exit(1)
		}

		if err := s.SetStorageRoots(ctx, remaining); err != nil {
			presenter.Error(err, "Failed to save storage roots")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Removed storage root %s", args[0]))
	},
}

func init() {
	rootsAddCmd.Flags().String("label", "", "Human-readable label for the root")
	rootsCmd.AddCommand(rootsListCmd)
	rootsCmd.AddCommand(rootsAddCmd)
	rootsCmd.AddCommand(rootsRemoveCmd)
	rootCmd.AddCommand(rootsCmd)
}
