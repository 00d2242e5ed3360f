package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillkit/pkg/presenter"
	"github.com/jingkaihe/skillkit/pkg/skills"
)

var updateCmd = &cobra.Command{
	Use:   "update <skill>",
	Short: "Update fields of an existing skill",
	Long: `Update one or more fields of an existing skill. Only the flags you pass
are changed; everything else in the document is preserved.

Examples:
  skillkit update summarizer --description "Summarizes long documents"
  skillkit update summarizer --body-file new-instructions.md
  skillkit update summarizer --model ""`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		update := skills.Update{}
		if cmd.Flags().Changed("name") {
			name, _ := cmd.Flags().GetString("name")
			update.Name = &name
		}
		if cmd.Flags().Changed("description") {
			description, _ := cmd.Flags().GetString("description")
			update.Description = &description
		}
		if cmd.Flags().Changed("model") {
			model, _ := cmd.Flags().GetString("model")
			update.Model = &model
		}
		if cmd.Flags().Changed("allowed-tool") {
			tools, _ := cmd.Flags().GetStringArray("allowed-tool")
			update.AllowedTools = &tools
		}
		if cmd.Flags().Changed("body") {
			body, _ := cmd.Flags().GetString("body")
			update.Body = &body
		}
		if cmd.Flags().Changed("body-file") {
			bodyFile, _ := cmd.Flags().GetString("body-file")
			content, err := os.ReadFile(bodyFile)
			if err != nil {
				presenter.Error(err, "Failed to read body file")
				os.Exit(1)
			}
			body := string(content)
			update.Body = &body
		}

		_, repo, cleanup, err := openEnv(ctx)
		if err != nil {
			presenter.Error(err, "Failed to open settings store")
			os.Exit(1)
		}
		defer cleanup()

		skill, err := repo.UpdateSkill(ctx, args[0], update)
		if err != nil {
			presenter.Error(err, "Failed to update skill")
			os.Exit(1)
		}
		if skill == nil {
			presenter.Error(errors.Errorf("skill %q not found or its document is invalid", args[0]), "Update failed")
			os.Exit(1)
		}

		presenter.Success(fmt.Sprintf("Updated skill %q", skill.DirName))
	},
}

func init() {
	updateCmd.Flags().String("name", "", "Declared metadata name")
	updateCmd.Flags().StringP("description", "d", "", "Skill description")
	updateCmd.Flags().String("body", "", "Instruction body")
	updateCmd.Flags().String("body-file", "", "Read the instruction body from a file")
	updateCmd.Flags().StringArray("allowed-tool", nil, "Permitted capability identifier (repeatable, replaces the list)")
	updateCmd.Flags().String("model", "", "Preferred execution model identifier (empty clears it)")
	rootCmd.AddCommand(updateCmd)
}
