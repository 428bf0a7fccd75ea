/*
Copyright © 2026 Robert Raul <license@robertraul.dev>
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/RobertRaul/storefront-notify/internal/app"
	"github.com/RobertRaul/storefront-notify/internal/colors"
	"github.com/RobertRaul/storefront-notify/internal/store"
	"github.com/RobertRaul/storefront-notify/internal/stream"
)

var followUnreadOnly bool

// FollowOptions holds all parameters for following the live stream.
type FollowOptions struct {
	Events     <-chan store.Event // store subscription to drain
	Output     io.Writer          // where to write notifications (default os.Stdout)
	UnreadOnly bool               // skip arrivals that are already read
}

// Follow prints store changes as they happen until the context ends or
// the event channel closes.
func Follow(ctx context.Context, opts FollowOptions) error {
	if opts.Events == nil {
		return fmt.Errorf("follow: events channel is required")
	}
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-opts.Events:
			if !ok {
				return nil
			}
			printFollowEvent(out, opts, ev)
		}
	}
}

func printFollowEvent(out io.Writer, opts FollowOptions, ev store.Event) {
	switch ev.Kind {
	case store.KindHistoryLoaded:
		fmt.Fprintf(out, "-- history loaded, %d unread --\n", ev.Unread)
	case store.KindIngested:
		n := ev.Notification
		if n == nil || (opts.UnreadOnly && n.Read) {
			return
		}
		title := n.Title
		if title == "" {
			title = n.Message
		}
		fmt.Fprintf(out, "%s [%s/%s] %s (id %d)\n", n.Category.Icon(), n.Category, n.Priority, title, n.ID)
	case store.KindMarkedAllRead:
		fmt.Fprintln(out, "-- all notifications marked read --")
	}
}

// NewFollowCmd creates the follow command.
func NewFollowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "follow",
		Short: "Stream notifications in real-time",
		Long: `Stream notifications to the terminal as they arrive.

USAGE:
    storefront-notify follow [OPTIONS]

OPTIONS:
    --unread           Only print unread arrivals
    -h, --help         Show this help`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sess, err := app.NewSession(app.Options{
				EnableStream: true,
				EnableCache:  true,
				OnState: func(s stream.State) {
					colors.Info(fmt.Sprintf("stream %s", s))
				},
			})
			if err != nil {
				return fmt.Errorf("follow: %w", err)
			}
			defer sess.Close()

			events, cancel := sess.Store.Subscribe()
			defer cancel()

			if err := sess.Start(ctx); err != nil {
				return fmt.Errorf("follow: %w", err)
			}

			colors.Info("Streaming notifications (Ctrl+C to stop)...")
			return Follow(ctx, FollowOptions{
				Events:     events,
				Output:     cmd.OutOrStdout(),
				UnreadOnly: followUnreadOnly,
			})
		},
	}

	cmd.Flags().BoolVar(&followUnreadOnly, "unread", false, "Only print unread arrivals")
	return cmd
}

var followCmd = NewFollowCmd()

func init() {
	RootCmd.AddCommand(followCmd)
}
