package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillkit/pkg/presenter"
)

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Manage the routing model preference",
	Long: `Get, set, or unset the classification model used to route requests.
Routing stays unconfigured until a model is set.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var modelGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the configured routing model",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		s, _, cleanup, err := openEnv(ctx)
		if err != nil {
			presenter.Error(err, "Failed to open settings store")
			os.Exit(1)
		}
		defer cleanup()

		model, configured := s.RoutingModel(ctx)
		if !configured {
			presenter.Info("No routing model configured")
			return
		}
		presenter.Info(model)
	},
}

var modelSetCmd = &cobra.Command{
	Use:   "set <model>",
	Short: "Set the routing model",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		s, _, cleanup, err := openEnv(ctx)
		if err != nil {
			presenter.Error(err, "Failed to open settings store")
			os.Exit(1)
		}
		defer cleanup()

		if err := s.SetRoutingModel(ctx, args[0]); err != nil {
			presenter.Error(err, "Failed to save routing model")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Routing model set to %s", args[0]))
	},
}

var modelUnsetCmd = &cobra.Command{
	Use:   "unset",
	Short: "Remove the routing model preference",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		s, _, cleanup, err := openEnv(ctx)
		if err != nil {
			presenter.Error(err, "Failed to open settings store")
			os.Exit(1)
		}
		defer cleanup()

		if err := s.ClearRoutingModel(ctx); err != nil {
			presenter.Error(err, "Failed to clear routing model")
			os.Exit(1)
		}
		presenter.Success("Routing model cleared")
	},
}

func init() {
	modelCmd.AddCommand(modelGetCmd)
	modelCmd.AddCommand(modelSetCmd)
	modelCmd.AddCommand(modelUnsetCmd)
	rootCmd.AddCommand(modelCmd)
}
