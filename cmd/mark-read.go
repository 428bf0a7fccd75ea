/*
Copyright © 2026 Robert Raul <license@robertraul.dev>
*/
package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/RobertRaul/storefront-notify/internal/colors"
)

type markReadClient interface {
	MarkAsRead(ctx context.Context, id int64) error
}

// NewMarkReadCmd creates the mark-read command with explicit dependencies.
func NewMarkReadCmd(client markReadClient) *cobra.Command {
	if client == nil {
		panic("NewMarkReadCmd: client dependency cannot be nil")
	}

	return &cobra.Command{
		Use:   "mark-read <id>",
		Short: "Mark a notification as read",
		Long: `Mark a notification as read by ID.

USAGE:
    storefront-notify mark-read <id>

OPTIONS:
    -h, --help           Show this help`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("mark-read: invalid notification ID %q", args[0])
			}
			if err := client.MarkAsRead(cmd.Context(), id); err != nil {
				return fmt.Errorf("mark-read: %w", err)
			}
			colors.Success(fmt.Sprintf("Notification %d marked as read", id))
			return nil
		},
	}
}

// markReadCmd represents the mark-read command
var markReadCmd = NewMarkReadCmd(coreDeps)

func init() {
	RootCmd.AddCommand(markReadCmd)
}
