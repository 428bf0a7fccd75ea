// Package app wires one notification session together from the
// configuration: credential store, REST client, local cache, the
// in-memory store, the live stream, and the propagation layer.
package app

import (
	"context"
	"time"

	"github.com/99designs/keyring"

	"github.com/RobertRaul/storefront-notify/internal/api"
	"github.com/RobertRaul/storefront-notify/internal/cache"
	"github.com/RobertRaul/storefront-notify/internal/config"
	"github.com/RobertRaul/storefront-notify/internal/credentials"
	"github.com/RobertRaul/storefront-notify/internal/logging"
	"github.com/RobertRaul/storefront-notify/internal/protocol"
	"github.com/RobertRaul/storefront-notify/internal/store"
	"github.com/RobertRaul/storefront-notify/internal/stream"
	"github.com/RobertRaul/storefront-notify/internal/syncer"
	"github.com/RobertRaul/storefront-notify/internal/tray"
)

// Options selects which parts of the session get built.
type Options struct {
	// Ring overrides the system keyring (tests).
	Ring keyring.Keyring
	// EnableStream builds the live WebSocket manager.
	EnableStream bool
	// EnableCache opens the local SQLite cache.
	EnableCache bool
	// EnableToasts builds the popup manager.
	EnableToasts bool
	// OnState observes stream state transitions.
	OnState stream.StateHandler
	// OnToasts observes the popup set after every change.
	OnToasts func([]tray.Toast)
	// OnHistoryError observes a failed initial history load. The load is
	// retried on the next LoadHistory call either way.
	OnHistoryError func(error)
}

// Session is one wired notification session. Fields not selected by the
// options stay nil.
type Session struct {
	Creds  *credentials.Store
	API    *api.Client
	Cache  *cache.SQLiteCache
	Store  *store.Store
	Stream *stream.Manager
	Syncer *syncer.Syncer
	Toasts *tray.ToastManager

	onHistoryError func(error)
	log            logging.Logger
}

// NewSession builds a session from the loaded configuration.
func NewSession(opts Options) (*Session, error) {
	log := logging.GetGlobal()

	ring := opts.Ring
	if ring == nil {
		opened, err := credentials.Open()
		if err != nil {
			return nil, err
		}
		return buildSession(opened, opts, log)
	}
	return buildSession(credentials.NewStore(ring), opts, log)
}

func buildSession(creds *credentials.Store, opts Options, log logging.Logger) (*Session, error) {
	s := &Session{Creds: creds, onHistoryError: opts.OnHistoryError, log: log}

	host := config.Get("api_host", "localhost:8000")
	useTLS := config.GetBool("api_tls", false)
	timeout := config.GetDuration("api_timeout_seconds", time.Second, 10*time.Second)

	s.API = api.NewClient(host, useTLS, timeout, creds.UsableToken)

	storeOpts := []store.Option{}
	if opts.EnableCache {
		c, err := cache.New(config.Get("cache_path", ""))
		if err != nil {
			// The cache is a convenience; a broken one must not block
			// the session.
			log.Warn("opening notification cache failed", "err", err)
		} else {
			s.Cache = c
			storeOpts = append(storeOpts, store.WithCache(c))
		}
	}
	s.Store = store.New(s.API, storeOpts...)

	if opts.EnableStream {
		s.Stream = stream.New(host, useTLS, creds.UsableToken,
			stream.WithClientID(logging.InstanceID()),
			stream.WithReconnectDelay(config.GetDuration("reconnect_delay_seconds", time.Second, stream.DefaultReconnectDelay)),
			stream.WithPingInterval(config.GetDuration("ping_interval_seconds", time.Second, stream.DefaultPingInterval)),
			stream.WithEventHandler(s.handleStreamEvent),
			stream.WithStateHandler(opts.OnState),
		)
		s.Syncer = syncer.New(s.Store, s.Stream, s.API)
	} else {
		s.Syncer = syncer.New(s.Store, nil, s.API)
	}

	if opts.EnableToasts {
		s.Toasts = tray.NewToastManager(
			tray.WithToastDuration(config.GetDuration("toast_duration_ms", time.Millisecond, tray.DefaultToastDuration)),
			tray.WithToastTick(config.GetDuration("toast_tick_ms", time.Millisecond, tray.DefaultToastTick)),
			tray.WithOnChange(opts.OnToasts),
		)
	}

	return s, nil
}

// handleStreamEvent routes inbound stream traffic into the store.
func (s *Session) handleStreamEvent(ev protocol.Inbound) {
	switch msg := ev.(type) {
	case protocol.NotificationMessage:
		n, err := msg.Notification.ToDomain()
		if err != nil {
			s.log.Debug("dropping invalid stream notification", "err", err)
			return
		}
		s.Store.Ingest(n)
	case protocol.ConnectionEstablishedMessage:
		s.log.Info("stream session established", "user", msg.User)
		if s.Stream != nil {
			// Resync the server total after every (re)connect.
			if err := s.Stream.Send(protocol.GetUnreadCountCommand{}); err != nil {
				s.log.Debug("unread count request failed", "err", err)
			}
		}
	case protocol.UnreadCountMessage:
		// The incremental counter is authoritative locally; the server
		// total is informational.
		s.log.Debug("server unread count", "count", msg.Count)
	case protocol.UnknownMessage:
		s.log.Debug("ignoring unknown stream event", "type", msg.Type)
	}
}

// Start brings the live parts up: history load in the background and
// the stream, when enabled.
func (s *Session) Start(ctx context.Context) error {
	go func() {
		if err := s.Store.LoadHistory(ctx); err != nil {
			s.log.Warn("initial history load failed", "err", err)
			if s.onHistoryError != nil {
				s.onHistoryError(err)
			}
		}
	}()
	if s.Stream != nil {
		return s.Stream.Start(ctx)
	}
	return nil
}

// Close tears the session down in reverse order.
func (s *Session) Close() {
	if s.Stream != nil {
		s.Stream.Stop()
	}
	if s.Cache != nil {
		if err := s.Cache.Close(); err != nil {
			s.log.Warn("closing notification cache failed", "err", err)
		}
	}
}
