package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillkit/pkg/presenter"
)

var removeCmd = &cobra.Command{
	Use:   "remove <skill>",
	Short: "Remove a skill",
	Long: `Remove a skill by name, deleting its directory recursively.

Examples:
  skillkit remove summarizer`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		_, repo, cleanup, err := openEnv(ctx)
		if err != nil {
			presenter.Error(err, "Failed to open settings store")
			os.Exit(1)
		}
		defer cleanup()

		removed, err := repo.DeleteSkill(ctx, args[0])
		if err != nil {
			presenter.Error(err, fmt.Sprintf("Failed to remove skill %q", args[0]))
			os.Exit(1)
		}
		if !removed {
			presenter.Error(errors.Errorf("skill %q not found", args[0]), "Skill not found")
			os.Exit(1)
		}

		presenter.Success(fmt.Sprintf("Removed skill %q", args[0]))
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
}
