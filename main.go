// Command todos serves an in-memory todo list over HTTP and provides a
// terminal client for it.
//
// Usage:
//
//	todos serve [-c todos.yaml] [--port 5000] [--store memory|sqlite]
//	todos view [-c todos.yaml] [--server http://localhost:5000]
//	todos version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"todos/internal/config"
)

// Version information, set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
)

var rootCmd = &cobra.Command{
	Use:   "todos",
	Short: "A minimal todo list server and terminal client",
	Long: `todos keeps a todo list in memory and exposes it as a REST API:

  GET    /todos       list todos
  POST   /todos       create a todo from {"task": "..."}
  PUT    /todos/{id}  replace a todo's task
  DELETE /todos/{id}  delete a todo

Nothing is persisted; the list lives as long as the server process.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "todos %s (commit %s)\n", version, commit)
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "path to a YAML or TOML config file")
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the --config file, if any.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
