package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jingkaihe/skillkit/pkg/logger"
	"github.com/jingkaihe/skillkit/pkg/presenter"
)

func init() {
	// Environment variables
	viper.SetEnvPrefix("SKILLKIT")
	viper.AutomaticEnv()

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.skillkit")
	viper.AddConfigPath(".")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()
}

var rootCmd = &cobra.Command{
	Use:   "skillkit",
	Short: "Manage and route a personal library of AI skills",
	Long: `Skillkit manages a personal library of skill definitions stored as
directories on disk, and routes a natural-language request to the single
best-matching enabled skill via a one-shot LLM classification.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if level := viper.GetString("log_level"); level != "" {
			if err := logger.SetLogLevel(level); err != nil {
				presenter.Warning(fmt.Sprintf("Invalid log level %q, using default", level))
			}
		}
		logger.SetLogFormat(viper.GetString("log_format"))
	},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
		os.Exit(1)
	},
}

func main() {
	ctx := context.Background()

	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "fmt", "Log format (fmt, json)")
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))

	shutdown, err := initTracing(ctx)
	if err != nil {
		presenter.Warning(fmt.Sprintf("Failed to initialize tracing: %v", err))
		shutdown = func(context.Context) error { return nil }
	}
	defer shutdown(ctx)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		presenter.Error(err, "Command failed")
		os.Exit(1)
	}
}
