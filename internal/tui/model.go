package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/RobertRaul/storefront-notify/internal/domain"
	"github.com/RobertRaul/storefront-notify/internal/errors"
	"github.com/RobertRaul/storefront-notify/internal/store"
	"github.com/RobertRaul/storefront-notify/internal/stream"
	"github.com/RobertRaul/storefront-notify/internal/tray"
)

const (
	defaultViewportWidth  = 80
	defaultViewportHeight = 22
	statusClearDuration   = 5 * time.Second
)

// Actions is the mutation surface the panel dispatches user intents to.
type Actions interface {
	MarkAsRead(ctx context.Context, id int64)
	MarkAllAsRead(ctx context.Context)
	Dismiss(id int64)
}

// Model is the bubbletea model for the notification panel.
type Model struct {
	store   *store.Store
	actions Actions
	events  <-chan store.Event

	rows   []domain.Notification
	filter domain.ReadFilter
	cursor int
	keys   keyMap

	streamState stream.State
	toasts      []tray.Toast

	width  int
	height int

	errorHandler      *errors.TUIHandler
	statusMessage     string
	statusMessageType errors.MessageType
	hasStatusMessage  bool
}

// NewModel creates the panel model. events is the store subscription the
// panel drains; the caller owns its cancellation.
func NewModel(st *store.Store, actions Actions, events <-chan store.Event) *Model {
	if st == nil {
		panic("tui.NewModel: store cannot be nil")
	}
	if actions == nil {
		panic("tui.NewModel: actions cannot be nil")
	}
	m := &Model{
		store:       st,
		actions:     actions,
		events:      events,
		filter:      domain.ReadFilterAll,
		keys:        defaultKeyMap,
		streamState: stream.StateDisconnected,
		width:       defaultViewportWidth,
		height:      defaultViewportHeight,
	}
	m.errorHandler = errors.NewTUIHandler(func(msg errors.Message) {
		m.statusMessage = msg.Text
		m.statusMessageType = msg.Type
		m.hasStatusMessage = msg.Text != ""
	})
	m.reload()
	return m
}

// Init starts the event listener.
func (m *Model) Init() tea.Cmd {
	if m.events == nil {
		return nil
	}
	return waitForEvent(m.events)
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case StoreEventMsg:
		m.reload()
		return m, waitForEvent(m.events)
	case StreamStateMsg:
		m.streamState = msg.State
		return m, nil
	case ToastsChangedMsg:
		m.toasts = msg.Active
		return m, nil
	case HistoryLoadFailedMsg:
		m.errorHandler.Error("history load failed: " + msg.Err.Error())
		return m, clearStatusLater()
	case clearStatusMsg:
		m.statusMessage = ""
		m.hasStatusMessage = false
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = len(m.rows) - 1
		m.clampCursor()
	case key.Matches(msg, m.keys.Filter):
		m.cycleFilter()
	case key.Matches(msg, m.keys.MarkRead):
		if n, ok := m.selected(); ok && !n.Read {
			id := n.ID
			return m, func() tea.Msg {
				m.actions.MarkAsRead(context.Background(), id)
				return nil
			}
		}
	case key.Matches(msg, m.keys.Dismiss):
		if n, ok := m.selected(); ok {
			id := n.ID
			return m, func() tea.Msg {
				m.actions.Dismiss(id)
				return nil
			}
		}
	case key.Matches(msg, m.keys.MarkAll):
		return m, func() tea.Msg {
			m.actions.MarkAllAsRead(context.Background())
			return nil
		}
	}
	return m, nil
}

// reload refreshes the visible rows from the store snapshot and keeps
// the cursor on a valid row.
func (m *Model) reload() {
	m.rows = m.filter.Apply(m.store.Notifications())
	m.clampCursor()
}

func (m *Model) cycleFilter() {
	switch m.filter {
	case domain.ReadFilterAll:
		m.filter = domain.ReadFilterUnread
	case domain.ReadFilterUnread:
		m.filter = domain.ReadFilterRead
	default:
		m.filter = domain.ReadFilterAll
	}
	m.reload()
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) selected() (domain.Notification, bool) {
	if len(m.rows) == 0 || m.cursor < 0 || m.cursor >= len(m.rows) {
		return domain.Notification{}, false
	}
	return m.rows[m.cursor], true
}

// Filter returns the active read filter.
func (m *Model) Filter() domain.ReadFilter {
	return m.filter
}

// Cursor returns the selected row index.
func (m *Model) Cursor() int {
	return m.cursor
}

// Rows returns the currently visible rows.
func (m *Model) Rows() []domain.Notification {
	return m.rows
}
