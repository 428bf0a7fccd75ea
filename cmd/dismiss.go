/*
Copyright © 2026 Robert Raul <license@robertraul.dev>
*/
package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/RobertRaul/storefront-notify/internal/colors"
)

type dismissClient interface {
	Dismiss(id int64) error
}

// NewDismissCmd creates the dismiss command with explicit dependencies.
func NewDismissCmd(client dismissClient) *cobra.Command {
	if client == nil {
		panic("NewDismissCmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "dismiss <id>",
		Short: "Remove a notification from this client",
		Long: `Remove a notification from this client's view.

Dismissal is local: the notification stays on the server and other
devices keep seeing it.

USAGE:
    storefront-notify dismiss <id>

OPTIONS:
    -h, --help           Show this help`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("dismiss: invalid notification ID %q", args[0])
			}
			if err := client.Dismiss(id); err != nil {
				return fmt.Errorf("dismiss: %w", err)
			}
			colors.Success(fmt.Sprintf("Notification %d dismissed", id))
			return nil
		},
	}
}

var dismissCmd = NewDismissCmd(coreDeps)

func init() {
	RootCmd.AddCommand(dismissCmd)
}
