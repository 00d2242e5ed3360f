package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillkit/pkg/presenter"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all discovered skills",
	Long:  `List every skill discovered under the configured storage roots with its description and enabled state.`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		s, repo, cleanup, err := openEnv(ctx)
		if err != nil {
			presenter.Error(err, "Failed to open settings store")
			os.Exit(1)
		}
		defer cleanup()

		allSkills := repo.ListSkills(ctx)
		if len(allSkills) == 0 {
			presenter.Info("No skills found")
			return
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tENABLED\tDIRECTORY\tDESCRIPTION")
		fmt.Fprintln(tw, "----\t-------\t---------\t-----------")

		for _, skill := range allSkills {
			enabled := ""
			if s.IsEnabled(ctx, skill.DirName) {
				enabled = "yes"
			}
			description := skill.Meta.Description
			if len(description) > 60 {
				description = description[:57] + "..."
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", skill.DirName, enabled, skill.Path, description)
		}
		tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
