// Package main implements the taskboard command: the task API server
// ("taskboard serve") and a command-line client for it ("taskboard task").
package main

import (
	"fmt"
	"os"

	"github.com/phrazzld/taskboard/internal/client"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "taskboard",
	Short:         "Taskboard - task management API and CLI",
	Long:          `Taskboard serves a JSON API for managing tasks and talks to it from the command line.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	// No RunE - defaults to showing help when no subcommand is provided
}

var (
	apiAddr string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&apiAddr, "api", client.DefaultBaseURL, "API server address")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
