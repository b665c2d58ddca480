package cmd

import (
	"os"
	"time"

	"github.com/nfrund/roomcast/cmd/roomcast-cli/internal/client"
	"github.com/spf13/cobra"
)

var (
	serverURL string
	timeout   time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "roomcast-cli",
	Short: "Roomcast CLI tool",
	Long: `Roomcast CLI talks to a running roomcast server.

Available commands:
  send     Post a chat message
  tail     Follow the live message stream
  stats    Show hub and per-room counters

Use "roomcast-cli [command] --help" for more information about a specific command.`,
	SilenceUsage: true,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8000", "Base URL of the roomcast server")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Timeout for request/response commands (tail is not affected)")
}

func newClient() *client.Client {
	return client.New(serverURL, client.WithTimeout(timeout))
}
