/*
Copyright © 2026 Robert Raul <license@robertraul.dev>
*/
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/RobertRaul/storefront-notify/internal/app"
	"github.com/RobertRaul/storefront-notify/internal/stream"
	"github.com/RobertRaul/storefront-notify/internal/tray"
	"github.com/RobertRaul/storefront-notify/internal/tui"
)

// NewPanelCmd creates the panel command.
func NewPanelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "panel",
		Short: "Open the interactive notification panel",
		Long: `Open the interactive notification panel.

KEYS:
    j/k, arrows        Navigate
    enter              Mark selected as read
    d                  Dismiss selected (this client only)
    a                  Mark all as read
    f, tab             Cycle all/unread/read filter
    q                  Quit

OPTIONS:
    -h, --help         Show this help`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPanel(cmd)
		},
	}
}

func runPanel(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The program is created after the session, so transitions that fire
	// during wiring are dropped rather than dereferencing nil.
	var (
		programMu sync.Mutex
		program   *tea.Program
	)
	send := func(msg tea.Msg) {
		programMu.Lock()
		p := program
		programMu.Unlock()
		if p != nil {
			p.Send(msg)
		}
	}

	sess, err := app.NewSession(app.Options{
		EnableStream: true,
		EnableCache:  true,
		EnableToasts: true,
		OnState: func(s stream.State) {
			send(tui.StreamStateMsg{State: s})
		},
		OnToasts: func(active []tray.Toast) {
			send(tui.ToastsChangedMsg{Active: active})
		},
		OnHistoryError: func(err error) {
			send(tui.HistoryLoadFailedMsg{Err: err})
		},
	})
	if err != nil {
		return fmt.Errorf("panel: %w", err)
	}
	defer sess.Close()

	toastEvents, cancelToasts := sess.Store.Subscribe()
	defer cancelToasts()
	go func() {
		for ev := range toastEvents {
			sess.Toasts.HandleEvent(ev)
		}
	}()
	go sess.Toasts.Run(ctx)

	modelEvents, cancelModel := sess.Store.Subscribe()
	defer cancelModel()
	model := tui.NewModel(sess.Store, sess.Syncer, modelEvents)

	if err := sess.Start(ctx); err != nil {
		return fmt.Errorf("panel: %w", err)
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	programMu.Lock()
	program = p
	programMu.Unlock()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("panel: %w", err)
	}
	return nil
}

var panelCmd = NewPanelCmd()

func init() {
	RootCmd.AddCommand(panelCmd)
}
