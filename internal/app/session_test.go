package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RobertRaul/storefront-notify/internal/config"
	"github.com/RobertRaul/storefront-notify/internal/credentials"
	"github.com/RobertRaul/storefront-notify/internal/protocol"
)

// pointAPIAt overrides the configured host for the test and restores the
// default afterwards.
func pointAPIAt(t *testing.T, host string) {
	t.Helper()
	config.Set("api_host", host)
	t.Cleanup(func() { config.Set("api_host", "localhost:8000") })
}

func newTestSession(t *testing.T, opts Options) *Session {
	t.Helper()
	if opts.Ring == nil {
		opts.Ring = keyring.NewArrayKeyring(nil)
	}
	s, err := NewSession(opts)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestNewSession_MinimalWiring(t *testing.T) {
	s := newTestSession(t, Options{})

	assert.NotNil(t, s.Creds)
	assert.NotNil(t, s.API)
	assert.NotNil(t, s.Store)
	assert.NotNil(t, s.Syncer)
	assert.Nil(t, s.Stream)
	assert.Nil(t, s.Toasts)
}

func TestNewSession_StreamAndToasts(t *testing.T) {
	s := newTestSession(t, Options{EnableStream: true, EnableToasts: true})

	assert.NotNil(t, s.Stream)
	assert.NotNil(t, s.Toasts)
}

func TestHandleStreamEvent_NotificationIngested(t *testing.T) {
	s := newTestSession(t, Options{})

	s.handleStreamEvent(protocol.NotificationMessage{
		Notification: protocol.Notification{
			ID:        42,
			Title:     "Order placed",
			Type:      "order",
			Priority:  "high",
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		},
	})

	_, ok := s.Store.Get(42)
	assert.True(t, ok)
}

func TestHandleStreamEvent_InvalidNotificationDropped(t *testing.T) {
	s := newTestSession(t, Options{})

	s.handleStreamEvent(protocol.NotificationMessage{
		Notification: protocol.Notification{ID: 0, Title: "bad"},
	})

	assert.Empty(t, s.Store.Notifications())
}

func TestHandleStreamEvent_OtherTypesAreQuiet(t *testing.T) {
	s := newTestSession(t, Options{})

	s.handleStreamEvent(protocol.ConnectionEstablishedMessage{User: "maria"})
	s.handleStreamEvent(protocol.UnreadCountMessage{Count: 3})
	s.handleStreamEvent(protocol.UnknownMessage{Type: "typing_indicator"})

	assert.Empty(t, s.Store.Notifications())
}

func TestHandleStreamEvent_ConnectionEstablishedRequestsUnreadCount(t *testing.T) {
	requested := make(chan struct{}, 1)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		greeting := `{"type":"connection_established","message":"ok","user":"maria"}`
		if err := conn.WriteMessage(websocket.TextMessage, []byte(greeting)); err != nil {
			return
		}
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var msg map[string]any
			if json.Unmarshal(data, &msg) == nil && msg["type"] == "get_unread_count" {
				requested <- struct{}{}
				return
			}
		}
	}))
	defer srv.Close()
	pointAPIAt(t, strings.TrimPrefix(srv.URL, "http://"))

	ring := keyring.NewArrayKeyring([]keyring.Item{
		{Key: credentials.AccessTokenKey, Data: []byte("tok")},
	})
	s := newTestSession(t, Options{Ring: ring, EnableStream: true})
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, s.Start(ctx))

	select {
	case <-requested:
	case <-time.After(2 * time.Second):
		t.Fatal("server never received the unread count request")
	}
}

func TestStart_HistoryLoadFailureReported(t *testing.T) {
	// Nothing listens on port 1, so the initial fetch fails fast.
	pointAPIAt(t, "127.0.0.1:1")

	errs := make(chan error, 1)
	s := newTestSession(t, Options{OnHistoryError: func(err error) { errs <- err }})
	require.NoError(t, s.Start(context.Background()))

	select {
	case err := <-errs:
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("history load failure was never reported")
	}
}
