package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/nfrund/roomcast/cmd/roomcast-cli/internal/client"
	"github.com/spf13/cobra"
)

var statsFormat string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show hub and per-room counters",
	Long: `Fetch /stats and print the current subscriber count, the hub sequence
and how many messages each room has seen since the server started.

Output formats:
  table - Human-readable table format (default)
  json  - The raw server response`,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := newClient().Stats(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch statsFormat {
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		case "table":
			return client.WriteStatsTable(out, stats)
		default:
			return fmt.Errorf("invalid format %q, valid formats: table, json", statsFormat)
		}
	},
}

func init() {
	statsCmd.Flags().StringVarP(&statsFormat, "format", "f", "table", "Output format (table or json)")
	rootCmd.AddCommand(statsCmd)
}
