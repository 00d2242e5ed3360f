package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillkit/pkg/presenter"
	"github.com/jingkaihe/skillkit/pkg/router"
)

var routeCmd = &cobra.Command{
	Use:   "route <request...>",
	Short: "Route a request to the best-matching enabled skill",
	Long: `Route a natural-language request to the single best-matching enabled
skill using the configured classification model.

Examples:
  skillkit route please shorten this article
  skillkit route "review the diff in my working tree"`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		request := strings.Join(args, " ")

		s, repo, cleanup, err := openEnv(ctx)
		if err != nil {
			presenter.Error(err, "Failed to open settings store")
			os.Exit(1)
		}
		defer cleanup()

		result := router.New(repo, s).Route(ctx, request)
		if result.Outcome == router.OutcomeRouted {
			fmt.Println(result.Message)
			return
		}
		presenter.Info(result.Message)
	},
}

func init() {
	rootCmd.AddCommand(routeCmd)
}
