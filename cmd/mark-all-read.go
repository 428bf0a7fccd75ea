/*
Copyright © 2026 Robert Raul <license@robertraul.dev>
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RobertRaul/storefront-notify/internal/colors"
)

type markAllReadClient interface {
	MarkAllAsRead(ctx context.Context) error
}

// NewMarkAllReadCmd creates the mark-all-read command with explicit dependencies.
func NewMarkAllReadCmd(client markAllReadClient) *cobra.Command {
	if client == nil {
		panic("NewMarkAllReadCmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "mark-all-read",
		Short: "Mark every notification as read",
		Long: `Mark every notification as read.

USAGE:
    storefront-notify mark-all-read

OPTIONS:
    -h, --help           Show this help`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.MarkAllAsRead(cmd.Context()); err != nil {
				return fmt.Errorf("mark-all-read: %w", err)
			}
			colors.Success("All notifications marked as read")
			return nil
		},
	}
}

var markAllReadCmd = NewMarkAllReadCmd(coreDeps)

func init() {
	RootCmd.AddCommand(markAllReadCmd)
}
