/*
Copyright © 2026 Robert Raul <license@robertraul.dev>
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RobertRaul/storefront-notify/internal/domain"
	"github.com/RobertRaul/storefront-notify/internal/stream"
	"github.com/RobertRaul/storefront-notify/internal/tray"
)

type statusClient interface {
	FetchHistory(ctx context.Context) ([]domain.Notification, error)
}

var statusCountOnly bool

// NewStatusCmd creates the status command with explicit dependencies.
// The output is one line, meant for status bars and shell prompts.
func NewStatusCmd(client statusClient) *cobra.Command {
	if client == nil {
		panic("NewStatusCmd: client dependency cannot be nil")
	}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the unread badge",
		Long: `Print the unread badge on a single line.

USAGE:
    storefront-notify status [OPTIONS]

OPTIONS:
    --count            Print only the raw unread count
    -h, --help         Show this help`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			notifications, err := client.FetchHistory(cmd.Context())
			if err != nil {
				return fmt.Errorf("status: %w", err)
			}
			unread := domain.CountUnread(notifications)
			if statusCountOnly {
				fmt.Fprintln(cmd.OutOrStdout(), unread)
				return nil
			}
			badge := tray.Badge{Unread: unread, State: stream.StateDisconnected}
			fmt.Fprintln(cmd.OutOrStdout(), badge.Render())
			return nil
		},
	}

	cmd.Flags().BoolVar(&statusCountOnly, "count", false, "Print only the raw unread count")
	return cmd
}

var statusCmd = NewStatusCmd(coreDeps)

func init() {
	RootCmd.AddCommand(statusCmd)
}
