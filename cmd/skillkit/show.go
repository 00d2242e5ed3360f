package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillkit/pkg/presenter"
)

var showCmd = &cobra.Command{
	Use:   "show <skill>",
	Short: "Show a skill's instructions or one of its supporting files",
	Long: `Show the instruction body of a skill, or with --file, the content of one
of its supporting files.

Examples:
  skillkit show summarizer
  skillkit show summarizer --file style-guide.md`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		fileName, _ := cmd.Flags().GetString("file")

		_, repo, cleanup, err := openEnv(ctx)
		if err != nil {
			presenter.Error(err, "Failed to open settings store")
			os.Exit(1)
		}
		defer cleanup()

		if fileName != "" {
			content, err := repo.ReadSupportingFile(ctx, args[0], fileName)
			if err != nil {
				presenter.Error(err, "Failed to read supporting file")
				os.Exit(1)
			}
			os.Stdout.Write(content)
			return
		}

		skill := repo.FindSkill(ctx, args[0])
		if skill == nil {
			presenter.Error(errors.Errorf("skill %q not found", args[0]), "Skill not found")
			os.Exit(1)
		}

		presenter.Section(skill.DisplayName())
		presenter.Info(skill.Meta.Description)
		if skill.Meta.Model != "" {
			presenter.Info(fmt.Sprintf("Model: %s", skill.Meta.Model))
		}
		if len(skill.Meta.AllowedTools) > 0 {
			presenter.Info(fmt.Sprintf("Allowed tools: %v", skill.Meta.AllowedTools))
		}
		presenter.Separator()
		fmt.Println(skill.Body)
		if len(skill.Files) > 0 {
			presenter.Separator()
			presenter.Info("Supporting files:")
			for _, file := range skill.Files {
				presenter.Info(fmt.Sprintf("  - %s", file))
			}
		}
	},
}

func init() {
	showCmd.Flags().StringP("file", "f", "", "Supporting file to print instead of the skill body")
	rootCmd.AddCommand(showCmd)
}
