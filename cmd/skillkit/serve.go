package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillkit/pkg/presenter"
	"github.com/jingkaihe/skillkit/pkg/router"
	"github.com/jingkaihe/skillkit/pkg/server"
)

// ServeConfig holds the flag values for the serve command
type ServeConfig struct {
	Host string
	Port int
}

// NewServeConfig returns the default serve configuration
func NewServeConfig() *ServeConfig {
	return &ServeConfig{
		Host: "localhost",
		Port: 8321,
	}
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the skill API over HTTP",
	Long: `Serve the skill repository and router over a local HTTP API.

Examples:
  skillkit serve
  skillkit serve --host 127.0.0.1 --port 9000`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		config := NewServeConfig()
		if host, err := cmd.Flags().GetString("host"); err == nil {
			config.Host = host
		}
		if port, err := cmd.Flags().GetInt("port"); err == nil {
			config.Port = port
		}

		s, repo, cleanup, err := openEnv(ctx)
		if err != nil {
			presenter.Error(err, "Failed to open settings store")
			os.Exit(1)
		}
		defer cleanup()

		srv, err := server.NewServer(&server.ServerConfig{Host: config.Host, Port: config.Port}, repo, s, router.New(repo, s))
		if err != nil {
			presenter.Error(err, "Failed to create server")
			os.Exit(1)
		}

		if err := srv.Start(ctx); err != nil {
			presenter.Error(err, "Server stopped with an error")
			os.Exit(1)
		}
	},
}

func init() {
	defaults := NewServeConfig()
	serveCmd.Flags().String("host", defaults.Host, "Host to bind the API server to")
	serveCmd.Flags().Int("port", defaults.Port, "Port to bind the API server to")
	rootCmd.AddCommand(serveCmd)
}
