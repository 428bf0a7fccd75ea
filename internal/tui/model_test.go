package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RobertRaul/storefront-notify/internal/domain"
	"github.com/RobertRaul/storefront-notify/internal/store"
	"github.com/RobertRaul/storefront-notify/internal/stream"
	"github.com/RobertRaul/storefront-notify/internal/tray"
)

type fakeActions struct {
	mu        sync.Mutex
	marked    []int64
	markedAll int
	dismissed []int64
}

func (f *fakeActions) MarkAsRead(ctx context.Context, id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marked = append(f.marked, id)
}

func (f *fakeActions) MarkAllAsRead(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markedAll++
}

func (f *fakeActions) Dismiss(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dismissed = append(f.dismissed, id)
}

func newTestModel(t *testing.T, ids ...int64) (*Model, *store.Store, *fakeActions) {
	t.Helper()
	st := store.New(nil)
	base := time.Now()
	for i, id := range ids {
		st.Ingest(domain.Notification{
			ID:        id,
			Title:     "n",
			Category:  domain.CategoryOrder,
			Priority:  domain.PriorityMedium,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
	}
	actions := &fakeActions{}
	return NewModel(st, actions, nil), st, actions
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// drain runs the command returned by Update, which is how action
// dispatches execute under bubbletea.
func drain(cmd tea.Cmd) {
	if cmd != nil {
		cmd()
	}
}

func TestModel_NavigationClampsCursor(t *testing.T) {
	m, _, _ := newTestModel(t, 1, 2, 3)

	m.Update(keyMsg("k"))
	assert.Equal(t, 0, m.Cursor())

	m.Update(keyMsg("j"))
	m.Update(keyMsg("j"))
	m.Update(keyMsg("j"))
	assert.Equal(t, 2, m.Cursor())

	m.Update(keyMsg("g"))
	assert.Equal(t, 0, m.Cursor())
	m.Update(keyMsg("G"))
	assert.Equal(t, 2, m.Cursor())
}

func TestModel_EnterMarksSelectedRead(t *testing.T) {
	m, _, actions := newTestModel(t, 1, 2)

	_, cmd := m.Update(keyMsg("enter"))
	drain(cmd)

	// Rows are newest first, so the top row is ID 2.
	assert.Equal(t, []int64{2}, actions.marked)
}

func TestModel_EnterOnReadRowIsNoOp(t *testing.T) {
	m, st, actions := newTestModel(t, 1)
	st.MarkAsRead(1)
	m.reload()

	_, cmd := m.Update(keyMsg("enter"))
	drain(cmd)
	assert.Empty(t, actions.marked)
}

func TestModel_DismissSelected(t *testing.T) {
	m, _, actions := newTestModel(t, 1, 2)

	m.Update(keyMsg("j"))
	_, cmd := m.Update(keyMsg("d"))
	drain(cmd)

	assert.Equal(t, []int64{1}, actions.dismissed)
}

func TestModel_MarkAll(t *testing.T) {
	m, _, actions := newTestModel(t, 1, 2)
	_, cmd := m.Update(keyMsg("a"))
	drain(cmd)
	assert.Equal(t, 1, actions.markedAll)
}

func TestModel_FilterCycle(t *testing.T) {
	m, st, _ := newTestModel(t, 1, 2, 3)
	st.MarkAsRead(2)
	m.reload()

	assert.Equal(t, domain.ReadFilterAll, m.Filter())
	assert.Len(t, m.Rows(), 3)

	m.Update(keyMsg("f"))
	assert.Equal(t, domain.ReadFilterUnread, m.Filter())
	assert.Len(t, m.Rows(), 2)

	m.Update(keyMsg("f"))
	assert.Equal(t, domain.ReadFilterRead, m.Filter())
	assert.Len(t, m.Rows(), 1)

	m.Update(keyMsg("f"))
	assert.Equal(t, domain.ReadFilterAll, m.Filter())
}

func TestModel_StoreEventRefreshesRows(t *testing.T) {
	st := store.New(nil)
	events, cancel := st.Subscribe()
	defer cancel()
	m := NewModel(st, &fakeActions{}, events)

	st.Ingest(domain.Notification{
		ID: 1, Title: "n", Category: domain.CategoryOrder,
		Priority: domain.PriorityLow, CreatedAt: time.Now(),
	})

	cmd := m.Init()
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, StoreEventMsg{}, msg)

	m.Update(msg)
	assert.Len(t, m.Rows(), 1)
}

func TestModel_QuitKeys(t *testing.T) {
	m, _, _ := newTestModel(t)
	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestView_ShowsRowsAndHelp(t *testing.T) {
	m, st, _ := newTestModel(t, 1)
	st.MarkAsRead(1)
	m.reload()

	view := m.View()
	assert.Contains(t, view, "Notifications")
	assert.Contains(t, view, "q: quit")
}

func TestView_EmptyStates(t *testing.T) {
	m, _, _ := newTestModel(t)
	assert.Contains(t, m.View(), "No notifications yet.")

	m.Update(keyMsg("f"))
	assert.Contains(t, m.View(), "No unread notifications.")
}

func TestView_RendersToasts(t *testing.T) {
	m, _, _ := newTestModel(t, 1)
	m.Update(ToastsChangedMsg{Active: []tray.Toast{{
		Notification: domain.Notification{ID: 9, Title: "Flash sale", Category: domain.CategoryCoupon},
		Remaining:    time.Second,
	}}})
	assert.Contains(t, m.View(), "Flash sale")
}

func TestModel_StreamStateUpdates(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.Update(StreamStateMsg{State: stream.StateConnected})
	assert.Equal(t, stream.StateConnected, m.streamState)
}

func TestModel_HistoryLoadFailureShowsStatus(t *testing.T) {
	m, _, _ := newTestModel(t, 1)

	_, cmd := m.Update(HistoryLoadFailedMsg{Err: errors.New("connection refused")})
	require.NotNil(t, cmd, "status wipe must be scheduled")
	assert.Contains(t, m.View(), "history load failed")

	m.Update(clearStatusMsg{})
	assert.NotContains(t, m.View(), "history load failed")
}

func TestRelativeAge(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		at   time.Time
		want string
	}{
		{"zero time", time.Time{}, ""},
		{"seconds ago", now.Add(-30 * time.Second), "now"},
		{"minutes ago", now.Add(-5 * time.Minute), "5m"},
		{"hours ago", now.Add(-3 * time.Hour), "3h"},
		{"days ago", now.Add(-49 * time.Hour), "2d"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relativeAge(tt.at, now))
		})
	}
}
