package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"todos/internal/client"
	"todos/internal/logging"
	"todos/internal/tui"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Open the terminal todo list",
	Long: `Open an interactive todo list backed by a running todos server.

Keys: a add, e/enter edit (leaving the field saves), d delete, r refresh,
q quit.`,
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)

	viewCmd.Flags().String("server", "", "base URL of the todos server")
	viewCmd.Flags().String("log-file", "", "write client logs to this file")
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("server") {
		cfg.ServerURL, _ = cmd.Flags().GetString("server")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// the terminal belongs to the UI, so logs go to a file or nowhere
	var out io.Writer = io.Discard
	if path, _ := cmd.Flags().GetString("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	logger := logging.New(out, cfg.LogLevel, cfg.LogFormat)

	c := client.New(cfg.ServerURL)
	defer c.Close()

	return tui.Run(context.Background(), c, logger)
}
