/*
Copyright © 2026 Robert Raul <license@robertraul.dev>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RobertRaul/storefront-notify/internal/colors"
	"github.com/RobertRaul/storefront-notify/internal/config"
)

type cleanupClient interface {
	Cleanup(daysThreshold int) (int64, error)
}

// NewCleanupCmd creates the cleanup command with explicit dependencies.
func NewCleanupCmd(client cleanupClient) *cobra.Command {
	if client == nil {
		panic("NewCleanupCmd: client dependency cannot be nil")
	}

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Clean up old dismissal records",
		Long: `Clean up old dismissal records.

Dismissals are remembered locally so dismissed notifications stay gone
across restarts. This removes records older than the threshold so the
local cache does not grow without bound.

USAGE:
    storefront-notify cleanup [--days <n>]

OPTIONS:
    --days <n>           Remove records dismissed more than n days ago
                         (default: auto_cleanup_days config value)
    -h, --help           Show this help`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			days, err := cmd.Flags().GetInt("days")
			if err != nil {
				return fmt.Errorf("cleanup: invalid days value: %w", err)
			}
			if days == 0 {
				days = config.GetInt("auto_cleanup_days", 30)
			}
			if days <= 0 {
				return fmt.Errorf("cleanup: days must be a positive integer")
			}
			removed, err := client.Cleanup(days)
			if err != nil {
				return fmt.Errorf("cleanup: %w", err)
			}
			colors.Success(fmt.Sprintf("Removed %d dismissal records older than %d days", removed, days))
			return nil
		},
	}

	// Default 0 means "use the config value".
	cmd.Flags().Int("days", 0, "remove records dismissed more than N days ago")
	return cmd
}

// cleanupCmd represents the cleanup command
var cleanupCmd = NewCleanupCmd(coreDeps)

func init() {
	RootCmd.AddCommand(cleanupCmd)
}
