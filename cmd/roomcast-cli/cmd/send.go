package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	sendRoom     string
	sendUsername string
)

var sendCmd = &cobra.Command{
	Use:   "send [message...]",
	Short: "Post a chat message",
	Long: `Post a chat message to the server's /message endpoint.
All arguments are joined with spaces to form the message body.

Examples:
  roomcast-cli send --room lobby --username alice hello everyone
  roomcast-cli send --server http://chat.local:8000 -r ops -u bot "deploy finished"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := strings.Join(args, " ")
		if err := newClient().Send(cmd.Context(), sendRoom, sendUsername, body); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "sent to %s\n", sendRoom)
		return nil
	},
}

func init() {
	sendCmd.Flags().StringVarP(&sendRoom, "room", "r", "lobby", "Room to post to")
	sendCmd.Flags().StringVarP(&sendUsername, "username", "u", "", "Name shown as the sender")
	rootCmd.AddCommand(sendCmd)
}
