package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"todos/internal/handlers"
	"todos/internal/logging"
	"todos/internal/server"
	"todos/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the todo API server",
	Long: `Start the todo API server.

The port defaults to 5000 and can be overridden by the config file, the
PORT environment variable, or --port, in increasing order of precedence.

The server runs until interrupted (Ctrl+C) or it receives SIGTERM.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 0, "port to listen on")
	serveCmd.Flags().String("store", "", "storage backend: memory or sqlite (both in-memory)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("store") {
		cfg.Store, _ = cmd.Flags().GetString("store")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	s, err := store.Open(cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer s.Close()

	h := handlers.New(s, logger)
	srv := server.New(h.Routes(), cfg.Port, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting server", "port", cfg.Port, "store", cfg.Store)
	return srv.Run(ctx)
}
