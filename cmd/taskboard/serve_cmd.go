package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskboard/internal/config"
	"github.com/phrazzld/taskboard/internal/platform/logger"
	"github.com/spf13/cobra"
)

var (
	configFile string
	servePort  int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the task API server",
	Long: `Starts the HTTP server for the task API. Configuration is read from
config.yaml, a .env file and TASKBOARD_* environment variables.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&configFile, "config", "", "Path to a config file (default ./config.yaml if present)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (overrides configuration)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig(configFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		if servePort <= 0 || servePort >= 65536 {
			return fmt.Errorf("invalid --port %d: must be between 1 and 65535", servePort)
		}
		cfg.Server.Port = servePort
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("Server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("environment", cfg.Server.Environment))

	app, err := newApplication(cmd.Context(), cfg, l)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.startHTTPServer(cmd.Context(), app.setupRouter())
}

// loadAppConfig loads the application configuration from the given file,
// the environment, or both.
func loadAppConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
