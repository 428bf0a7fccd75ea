// Package syncer applies user intents optimistically and propagates them
// to the server over both available channels. The local store mutates
// first; the stream command and the REST confirmation both go out
// afterwards, and neither failure rolls the local state back. Duplicate
// delivery is harmless because the server operations are idempotent.
package syncer

import (
	"context"

	"github.com/RobertRaul/storefront-notify/internal/logging"
	"github.com/RobertRaul/storefront-notify/internal/protocol"
	"github.com/RobertRaul/storefront-notify/internal/store"
)

// Sender pushes commands over the live stream.
type Sender interface {
	Send(cmd protocol.Outbound) error
	Connected() bool
}

// Confirmer pushes confirmations over REST.
type Confirmer interface {
	MarkAsRead(ctx context.Context, id int64) error
	MarkAllAsRead(ctx context.Context) error
}

// Syncer coordinates local mutation and remote propagation.
type Syncer struct {
	store  *store.Store
	stream Sender
	rest   Confirmer
	log    logging.Logger
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithLogger overrides the logger.
func WithLogger(log logging.Logger) Option {
	return func(s *Syncer) { s.log = log }
}

// New creates a Syncer. stream may be nil for REST-only sessions
// (one-shot CLI commands that never open the stream).
func New(st *store.Store, stream Sender, rest Confirmer, opts ...Option) *Syncer {
	if st == nil {
		panic("syncer.New: store cannot be nil")
	}
	if rest == nil {
		panic("syncer.New: rest confirmer cannot be nil")
	}
	s := &Syncer{store: st, stream: stream, rest: rest, log: logging.GetGlobal()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MarkAsRead marks locally, then tells the server on every channel it
// can reach. The local mark always sticks.
func (s *Syncer) MarkAsRead(ctx context.Context, id int64) {
	s.store.MarkAsRead(id)
	if s.stream != nil && s.stream.Connected() {
		if err := s.stream.Send(protocol.MarkAsReadCommand{NotificationID: id}); err != nil {
			s.log.Warn("stream mark-read send failed", "id", id, "err", err)
		}
	}
	if err := s.rest.MarkAsRead(ctx, id); err != nil {
		s.log.Warn("rest mark-read failed", "id", id, "err", err)
	}
}

// MarkAllAsRead marks everything locally, then propagates.
func (s *Syncer) MarkAllAsRead(ctx context.Context) {
	s.store.MarkAllAsRead()
	if s.stream != nil && s.stream.Connected() {
		if err := s.stream.Send(protocol.MarkAllAsReadCommand{}); err != nil {
			s.log.Warn("stream mark-all send failed", "err", err)
		}
	}
	if err := s.rest.MarkAllAsRead(ctx); err != nil {
		s.log.Warn("rest mark-all failed", "err", err)
	}
}

// Dismiss removes the entry from the local view only. Dismissal never
// reaches the server; the record stays server-side and other clients
// keep seeing it.
func (s *Syncer) Dismiss(id int64) {
	s.store.Dismiss(id)
}
