// Package tui is the interactive notification panel.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/RobertRaul/storefront-notify/internal/store"
	"github.com/RobertRaul/storefront-notify/internal/stream"
	"github.com/RobertRaul/storefront-notify/internal/tray"
)

// StoreEventMsg carries one store change into the update loop.
type StoreEventMsg struct {
	Event store.Event
}

// StreamStateMsg carries a connection state transition.
type StreamStateMsg struct {
	State stream.State
}

// ToastsChangedMsg carries the current popup set.
type ToastsChangedMsg struct {
	Active []tray.Toast
}

// HistoryLoadFailedMsg is sent when the initial history fetch fails.
type HistoryLoadFailedMsg struct {
	Err error
}

// clearStatusMsg clears the transient status line.
type clearStatusMsg struct{}

// clearStatusLater schedules the status line wipe.
func clearStatusLater() tea.Cmd {
	return tea.Tick(statusClearDuration, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// waitForEvent re-arms the store event listener.
func waitForEvent(ch <-chan store.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return StoreEventMsg{Event: ev}
	}
}
