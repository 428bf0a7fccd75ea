/*
Copyright © 2026 Robert Raul <license@robertraul.dev>
*/
package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/RobertRaul/storefront-notify/internal/domain"
)

type listClient interface {
	FetchHistory(ctx context.Context) ([]domain.Notification, error)
}

var (
	listFilter string
	listLimit  int
)

// NewListCmd creates the list command with explicit dependencies.
func NewListCmd(client listClient) *cobra.Command {
	if client == nil {
		panic("NewListCmd: client dependency cannot be nil")
	}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notifications",
		Long: `List notifications, newest first.

USAGE:
    storefront-notify list [OPTIONS]

OPTIONS:
    --filter <f>       Show all, unread, or read (default: all)
    --limit <n>        Show at most n entries (0 = no limit)
    -h, --help         Show this help`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := domain.ParseReadFilter(listFilter)
			if err != nil {
				return fmt.Errorf("list: %w", err)
			}

			notifications, err := client.FetchHistory(cmd.Context())
			if err != nil {
				return fmt.Errorf("list: %w", err)
			}

			rows := filter.Apply(notifications)
			if listLimit > 0 && len(rows) > listLimit {
				rows = rows[:listLimit]
			}
			writeListing(cmd.OutOrStdout(), rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&listFilter, "filter", "all", "Show all, unread, or read")
	cmd.Flags().IntVar(&listLimit, "limit", 0, "Show at most n entries (0 = no limit)")
	return cmd
}

func writeListing(w io.Writer, rows []domain.Notification) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No notifications.")
		return
	}
	for _, n := range rows {
		marker := " "
		if !n.Read {
			marker = "*"
		}
		title := n.Title
		if title == "" {
			title = n.Message
		}
		fmt.Fprintf(w, "%s %6d  %s %-8s %-7s %s  %s\n",
			marker, n.ID, n.Category.Icon(), n.Category, n.Priority, title,
			n.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
}

var listCmd = NewListCmd(coreDeps)

func init() {
	RootCmd.AddCommand(listCmd)
}
