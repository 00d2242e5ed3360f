package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillkit/pkg/presenter"
)

var enableCmd = &cobra.Command{
	Use:   "enable <skill>",
	Short: "Enable a skill for routing",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		s, repo, cleanup, err := openEnv(ctx)
		if err != nil {
			presenter.Error(err, "Failed to open settings store")
			os.Exit(1)
		}
		defer cleanup()

		skill := repo.FindSkill(ctx, args[0])
		if skill == nil {
			presenter.Error(errors.Errorf("skill %q not found", args[0]), "Skill not found")
			os.Exit(1)
		}

		if err := s.Enable(ctx, skill.DirName); err != nil {
			presenter.Error(err, "Failed to enable skill")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Enabled skill %q", skill.DirName))
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable <skill>",
	Short: "Disable a skill for routing",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		s, _, cleanup, err := openEnv(ctx)
		if err != nil {
			presenter.Error(err, "Failed to open settings store")
			os.Exit(1)
		}
		defer cleanup()

		if err := s.Disable(ctx, args[0]); err != nil {
			presenter.Error(err, "Failed to disable skill")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Disabled skill %q", args[0]))
	},
}

var enabledCmd = &cobra.Command{
	Use:   "enabled",
	Short: "List enabled skills",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		s, repo, cleanup, err := openEnv(ctx)
		if err != nil {
			presenter.Error(err, "Failed to open settings store")
			os.Exit(1)
		}
		defer cleanup()

		enabled := s.ListEnabledSkills(ctx, repo)
		if len(enabled) == 0 {
			presenter.Info("No skills enabled")
			return
		}
		for _, skill := range enabled {
			presenter.Info(fmt.Sprintf("%s: %s", skill.DirName, skill.Meta.Description))
		}
	},
}

func init() {
	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)
	rootCmd.AddCommand(enabledCmd)
}
