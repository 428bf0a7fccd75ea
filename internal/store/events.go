package store

import "github.com/RobertRaul/storefront-notify/internal/domain"

// EventKind discriminates store events.
type EventKind int

const (
	// KindIngested signals a new live notification entered the collection.
	KindIngested EventKind = iota
	// KindUpdated signals an in-place mutation (read mark).
	KindUpdated
	// KindRemoved signals a dismissal.
	KindRemoved
	// KindHistoryLoaded signals the one-shot history load completed.
	KindHistoryLoaded
	// KindMarkedAllRead signals a mark-all sweep.
	KindMarkedAllRead
)

// Event is one store change, as observed by presentation adapters.
// Notification is set for per-record kinds and nil for sweeps.
type Event struct {
	Kind          EventKind
	Notification  *domain.Notification
	Unread        int
	HistoryLoaded bool
}

// Subscribe registers a consumer. The returned cancel func must be
// called on teardown; after cancel the channel is closed. Events are
// delivered best-effort: a consumer that stops draining loses events
// rather than blocking the store.
func (s *Store) Subscribe() (<-chan Event, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan Event, subscriberBuffer)
	s.subs[id] = ch
	return ch, func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
}

func (s *Store) publish(ev Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			s.log.Warn("dropping store event for slow subscriber", "kind", ev.Kind)
		}
	}
}
