package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/nfrund/roomcast/cmd/roomcast-cli/internal/client"
	"github.com/spf13/cobra"
)

var (
	tailRoom   string
	tailFormat string
)

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Follow the live message stream",
	Long: `Connect to the server's /events stream and print every message as it
arrives. The stream ends when the server shuts down or on Ctrl-C.

Examples:
  roomcast-cli tail                     # every room
  roomcast-cli tail --room lobby        # only the lobby
  roomcast-cli tail --format json       # one JSON object per line`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if tailFormat != "text" && tailFormat != "json" {
			return fmt.Errorf("invalid format %q, valid formats: text, json", tailFormat)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		err := newClient().Tail(ctx, func(ev client.Event) error {
			if tailRoom != "" && ev.Message.Room != tailRoom {
				return nil
			}
			if tailFormat == "json" {
				return json.NewEncoder(out).Encode(ev)
			}
			_, err := fmt.Fprintln(out, client.FormatLine(ev))
			return err
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	tailCmd.Flags().StringVarP(&tailRoom, "room", "r", "", "Only print messages for this room")
	tailCmd.Flags().StringVarP(&tailFormat, "format", "f", "text", "Output format (text or json)")
	rootCmd.AddCommand(tailCmd)
}
