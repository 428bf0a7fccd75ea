// Package store holds the authoritative in-memory notification
// collection for one authenticated session. It merges the one-shot
// history load with live stream ingestion, deduplicates by ID, keeps the
// unread counter, and fans events out to the presentation surfaces.
package store

import (
	"context"
	"sync"

	"github.com/RobertRaul/storefront-notify/internal/domain"
	"github.com/RobertRaul/storefront-notify/internal/logging"
)

// HistoryFetcher loads the historical notification set.
type HistoryFetcher interface {
	FetchHistory(ctx context.Context) ([]domain.Notification, error)
}

// Cache persists the collection between sessions. All cache failures are
// logged and swallowed; the in-memory collection is the authority.
type Cache interface {
	Load() (notifications []domain.Notification, dismissed []int64, err error)
	Put(n domain.Notification) error
	SetRead(id int64, read bool) error
	SetAllRead() error
	Dismiss(id int64) error
}

// subscriberBuffer bounds each subscriber channel. A consumer that falls
// this far behind starts losing events and must resynchronize from
// Notifications().
const subscriberBuffer = 128

// Store is the single source of truth for the notification collection
// and the unread counter. Presentation adapters never mutate it
// directly; they dispatch intents through its methods.
type Store struct {
	mu            sync.RWMutex
	notifications []domain.Notification
	unread        int
	dismissed     map[int64]struct{}

	historyLoaded  bool
	historyLoading bool

	history HistoryFetcher
	cache   Cache
	log     logging.Logger

	subMu   sync.Mutex
	subs    map[int]chan Event
	nextSub int
}

// Option configures a Store.
type Option func(*Store)

// WithCache attaches a persistent cache. The cache seeds the collection
// on construction and receives write-through updates afterwards.
func WithCache(cache Cache) Option {
	return func(s *Store) { s.cache = cache }
}

// WithLogger overrides the logger.
func WithLogger(log logging.Logger) Option {
	return func(s *Store) { s.log = log }
}

// New creates a store for one session. history may be nil when the
// caller never loads history (status-bar one-shots).
func New(history HistoryFetcher, opts ...Option) *Store {
	s := &Store{
		dismissed: make(map[int64]struct{}),
		history:   history,
		log:       logging.GetGlobal(),
		subs:      make(map[int]chan Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.seedFromCache()
	return s
}

func (s *Store) seedFromCache() {
	if s.cache == nil {
		return
	}
	notifications, dismissed, err := s.cache.Load()
	if err != nil {
		s.log.Warn("cache load failed, starting empty", "err", err)
		return
	}
	s.notifications = domain.SortNewestFirst(notifications)
	for _, id := range dismissed {
		s.dismissed[id] = struct{}{}
	}
	s.unread = domain.CountUnread(s.notifications)
}

// LoadHistory fetches the full historical set exactly once per session.
// A second call while the first is in flight, or after it has succeeded,
// is a no-op. On failure the collection is left as-is and the caller may
// retry later.
func (s *Store) LoadHistory(ctx context.Context) error {
	s.mu.Lock()
	if s.historyLoaded || s.historyLoading || s.history == nil {
		s.mu.Unlock()
		return nil
	}
	s.historyLoading = true
	s.mu.Unlock()

	history, err := s.history.FetchHistory(ctx)
	if err != nil {
		s.mu.Lock()
		s.historyLoading = false
		s.mu.Unlock()
		s.log.Warn("history load failed", "err", err)
		return err
	}

	s.mu.Lock()
	s.mergeHistory(history)
	s.historyLoaded = true
	s.historyLoading = false
	unread := s.unread
	s.mu.Unlock()

	s.publish(Event{Kind: KindHistoryLoaded, Unread: unread})
	return nil
}

// mergeHistory unions the fetched history into the collection. Entries
// already present keep their copy (and read state): a live event that
// raced ahead of the load wins over its historical duplicate. Entries
// dismissed locally stay gone. Called with s.mu held.
func (s *Store) mergeHistory(history []domain.Notification) {
	existing := make(map[int64]struct{}, len(s.notifications))
	for _, n := range s.notifications {
		existing[n.ID] = struct{}{}
	}
	merged := make([]domain.Notification, len(s.notifications), len(s.notifications)+len(history))
	copy(merged, s.notifications)
	for _, n := range history {
		if _, ok := existing[n.ID]; ok {
			continue
		}
		if _, gone := s.dismissed[n.ID]; gone {
			continue
		}
		merged = append(merged, n)
		if s.cache != nil {
			if err := s.cache.Put(n); err != nil {
				s.log.Warn("cache put failed", "id", n.ID, "err", err)
			}
		}
	}
	s.notifications = domain.SortNewestFirst(merged)
	s.unread = domain.CountUnread(s.notifications)
}

// Ingest applies one live notification. Redelivery of an ID already in
// the collection, or one dismissed earlier this session, is a no-op.
func (s *Store) Ingest(n domain.Notification) {
	s.mu.Lock()
	if s.contains(n.ID) {
		s.mu.Unlock()
		return
	}
	if _, gone := s.dismissed[n.ID]; gone {
		s.mu.Unlock()
		return
	}
	// Live events are assumed newer than anything stored: prepend.
	s.notifications = append([]domain.Notification{n}, s.notifications...)
	if !n.Read {
		s.unread++
	}
	unread := s.unread
	historyLoaded := s.historyLoaded
	if s.cache != nil {
		if err := s.cache.Put(n); err != nil {
			s.log.Warn("cache put failed", "id", n.ID, "err", err)
		}
	}
	s.mu.Unlock()

	s.publish(Event{
		Kind:          KindIngested,
		Notification:  &n,
		Unread:        unread,
		HistoryLoaded: historyLoaded,
	})
}

// MarkAsRead sets the record read and decrements the unread counter,
// floored at zero. No-op when the record is absent or already read.
func (s *Store) MarkAsRead(id int64) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 || s.notifications[idx].Read {
		s.mu.Unlock()
		return
	}
	s.notifications[idx].Read = true
	if s.unread > 0 {
		s.unread--
	}
	n := s.notifications[idx]
	unread := s.unread
	if s.cache != nil {
		if err := s.cache.SetRead(id, true); err != nil {
			s.log.Warn("cache mark-read failed", "id", id, "err", err)
		}
	}
	s.mu.Unlock()

	s.publish(Event{Kind: KindUpdated, Notification: &n, Unread: unread})
}

// MarkAllAsRead sets every record read and the counter to exactly zero.
func (s *Store) MarkAllAsRead() {
	s.mu.Lock()
	for i := range s.notifications {
		s.notifications[i].Read = true
	}
	s.unread = 0
	if s.cache != nil {
		if err := s.cache.SetAllRead(); err != nil {
			s.log.Warn("cache mark-all failed", "err", err)
		}
	}
	s.mu.Unlock()

	s.publish(Event{Kind: KindMarkedAllRead, Unread: 0})
}

// Dismiss removes the record unconditionally. Dismissal is local to this
// client: no remote call is made, but the ID is remembered so neither a
// history reload nor stream redelivery resurrects it.
func (s *Store) Dismiss(id int64) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	n := s.notifications[idx]
	s.notifications = append(s.notifications[:idx], s.notifications[idx+1:]...)
	if !n.Read && s.unread > 0 {
		s.unread--
	}
	s.dismissed[id] = struct{}{}
	unread := s.unread
	if s.cache != nil {
		if err := s.cache.Dismiss(id); err != nil {
			s.log.Warn("cache dismiss failed", "id", id, "err", err)
		}
	}
	s.mu.Unlock()

	s.publish(Event{Kind: KindRemoved, Notification: &n, Unread: unread})
}

// Notifications returns a copy of the ordered collection.
func (s *Store) Notifications() []domain.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// UnreadCount returns the incrementally maintained unread counter.
func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unread
}

// HistoryLoaded reports whether the one-shot history load has completed.
func (s *Store) HistoryLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.historyLoaded
}

// Get returns the record with the given ID, if present.
func (s *Store) Get(id int64) (domain.Notification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.indexOf(id); idx >= 0 {
		return s.notifications[idx], true
	}
	return domain.Notification{}, false
}

func (s *Store) contains(id int64) bool {
	return s.indexOf(id) >= 0
}

// indexOf returns the position of id, or -1. Called with s.mu held.
func (s *Store) indexOf(id int64) int {
	for i, n := range s.notifications {
		if n.ID == id {
			return i
		}
	}
	return -1
}
