package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RobertRaul/storefront-notify/internal/domain"
)

type fakeFetcher struct {
	mu      sync.Mutex
	calls   int
	history []domain.Notification
	err     error
	block   chan struct{}
}

func (f *fakeFetcher) FetchHistory(ctx context.Context) ([]domain.Notification, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
	return f.history, f.err
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeCache struct {
	seed      []domain.Notification
	dismissed []int64
	loadErr   error

	puts    []int64
	reads   []int64
	allRead int
	gone    []int64
}

func (f *fakeCache) Load() ([]domain.Notification, []int64, error) {
	return f.seed, f.dismissed, f.loadErr
}
func (f *fakeCache) Put(n domain.Notification) error {
	f.puts = append(f.puts, n.ID)
	return nil
}
func (f *fakeCache) SetRead(id int64, read bool) error {
	f.reads = append(f.reads, id)
	return nil
}
func (f *fakeCache) SetAllRead() error {
	f.allRead++
	return nil
}
func (f *fakeCache) Dismiss(id int64) error {
	f.gone = append(f.gone, id)
	return nil
}

func note(id int64, read bool, at time.Time) domain.Notification {
	return domain.Notification{
		ID:        id,
		Title:     "n",
		Category:  domain.CategoryOrder,
		Priority:  domain.PriorityMedium,
		Read:      read,
		CreatedAt: at,
	}
}

func TestIngest_DeduplicatesByID(t *testing.T) {
	s := New(nil)
	at := time.Now()

	s.Ingest(note(1, false, at))
	s.Ingest(note(1, false, at))
	s.Ingest(note(2, false, at))

	assert.Len(t, s.Notifications(), 2)
	assert.Equal(t, 2, s.UnreadCount())
}

func TestIngest_PrependsNewest(t *testing.T) {
	s := New(nil)
	at := time.Now()

	s.Ingest(note(1, false, at))
	s.Ingest(note(2, false, at.Add(time.Minute)))

	got := s.Notifications()
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestIngest_ReadEntryDoesNotBumpCounter(t *testing.T) {
	s := New(nil)
	s.Ingest(note(1, true, time.Now()))
	assert.Equal(t, 0, s.UnreadCount())
}

func TestLoadHistory_OnlyOncePerSession(t *testing.T) {
	fetcher := &fakeFetcher{history: []domain.Notification{note(1, false, time.Now())}}
	s := New(fetcher)

	require.NoError(t, s.LoadHistory(context.Background()))
	require.NoError(t, s.LoadHistory(context.Background()))

	assert.Equal(t, 1, fetcher.callCount())
	assert.True(t, s.HistoryLoaded())
}

func TestLoadHistory_InFlightCallIsNoOp(t *testing.T) {
	fetcher := &fakeFetcher{block: make(chan struct{})}
	s := New(fetcher)

	done := make(chan struct{})
	go func() {
		s.LoadHistory(context.Background())
		close(done)
	}()

	// Wait for the first call to enter the fetcher, then call again.
	assert.Eventually(t, func() bool { return fetcher.callCount() == 1 },
		time.Second, 5*time.Millisecond)
	require.NoError(t, s.LoadHistory(context.Background()))
	assert.Equal(t, 1, fetcher.callCount())

	close(fetcher.block)
	<-done
}

func TestLoadHistory_FailureAllowsRetry(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("boom")}
	s := New(fetcher)

	require.Error(t, s.LoadHistory(context.Background()))
	assert.False(t, s.HistoryLoaded())

	fetcher.err = nil
	fetcher.history = []domain.Notification{note(1, false, time.Now())}
	require.NoError(t, s.LoadHistory(context.Background()))
	assert.True(t, s.HistoryLoaded())
	assert.Len(t, s.Notifications(), 1)
}

func TestLoadHistory_MergeKeepsLiveCopyAndOrder(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	fetcher := &fakeFetcher{history: []domain.Notification{
		note(1, false, base.Add(2*time.Hour)), // duplicate of live entry, unread server-side
		note(2, false, base.Add(time.Hour)),
		note(3, true, base),
	}}
	s := New(fetcher)

	// Live entry arrived before history and was already read locally.
	live := note(1, false, base.Add(2*time.Hour))
	s.Ingest(live)
	s.MarkAsRead(1)

	require.NoError(t, s.LoadHistory(context.Background()))

	got := s.Notifications()
	require.Len(t, got, 3)
	// Union by ID, the local copy's read state survives the merge.
	assert.Equal(t, int64(1), got[0].ID)
	assert.True(t, got[0].Read)
	assert.Equal(t, int64(2), got[1].ID)
	assert.Equal(t, int64(3), got[2].ID)
	assert.Equal(t, 1, s.UnreadCount())
	assert.Equal(t, domain.CountUnread(got), s.UnreadCount())
}

func TestLoadHistory_SkipsDismissedIDs(t *testing.T) {
	at := time.Now()
	fetcher := &fakeFetcher{history: []domain.Notification{note(7, false, at)}}
	s := New(fetcher)

	s.Ingest(note(7, false, at))
	s.Dismiss(7)
	require.NoError(t, s.LoadHistory(context.Background()))

	assert.Empty(t, s.Notifications())
	assert.Equal(t, 0, s.UnreadCount())
}

func TestIngest_DismissedIDStaysGone(t *testing.T) {
	at := time.Now()
	s := New(nil)

	s.Ingest(note(5, false, at))
	s.Dismiss(5)
	s.Ingest(note(5, false, at))

	assert.Empty(t, s.Notifications())
	assert.Equal(t, 0, s.UnreadCount())
}

func TestMarkAsRead(t *testing.T) {
	s := New(nil)
	at := time.Now()
	s.Ingest(note(1, false, at))
	s.Ingest(note(2, false, at))

	s.MarkAsRead(1)
	assert.Equal(t, 1, s.UnreadCount())

	// Marking again, or marking an absent ID, changes nothing.
	s.MarkAsRead(1)
	s.MarkAsRead(99)
	assert.Equal(t, 1, s.UnreadCount())

	n, ok := s.Get(1)
	require.True(t, ok)
	assert.True(t, n.Read)
}

func TestMarkAllAsRead(t *testing.T) {
	s := New(nil)
	at := time.Now()
	for id := int64(1); id <= 4; id++ {
		s.Ingest(note(id, false, at))
	}

	s.MarkAllAsRead()

	assert.Equal(t, 0, s.UnreadCount())
	for _, n := range s.Notifications() {
		assert.True(t, n.Read)
	}
}

func TestDismiss(t *testing.T) {
	s := New(nil)
	at := time.Now()
	s.Ingest(note(1, false, at))
	s.Ingest(note(2, true, at))

	s.Dismiss(1)
	assert.Equal(t, 0, s.UnreadCount())
	assert.Len(t, s.Notifications(), 1)

	// Dismissing a read entry leaves the counter alone.
	s.Dismiss(2)
	assert.Equal(t, 0, s.UnreadCount())
	assert.Empty(t, s.Notifications())

	// Absent ID is a no-op.
	s.Dismiss(99)
	assert.Equal(t, 0, s.UnreadCount())
}

func TestCounterMatchesRecountAfterMixedOps(t *testing.T) {
	s := New(nil)
	at := time.Now()

	for id := int64(1); id <= 10; id++ {
		s.Ingest(note(id, id%3 == 0, at.Add(time.Duration(id)*time.Second)))
	}
	s.MarkAsRead(1)
	s.MarkAsRead(1)
	s.Dismiss(2)
	s.MarkAsRead(4)
	s.Dismiss(3)
	s.Ingest(note(11, false, at.Add(time.Hour)))

	assert.Equal(t, domain.CountUnread(s.Notifications()), s.UnreadCount())
}

func TestSubscribe_DeliversEvents(t *testing.T) {
	s := New(nil)
	ch, cancel := s.Subscribe()
	defer cancel()

	s.Ingest(note(1, false, time.Now()))
	s.MarkAsRead(1)
	s.Dismiss(1)
	s.MarkAllAsRead()

	wantKinds := []EventKind{KindIngested, KindUpdated, KindRemoved, KindMarkedAllRead}
	for _, want := range wantKinds {
		select {
		case ev := <-ch:
			assert.Equal(t, want, ev.Kind)
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for event %v", want)
		}
	}
}

func TestSubscribe_CancelClosesChannel(t *testing.T) {
	s := New(nil)
	ch, cancel := s.Subscribe()
	cancel()
	_, open := <-ch
	assert.False(t, open)

	// Publishing after cancel must not panic.
	s.Ingest(note(1, false, time.Now()))
}

func TestIngestEvent_CarriesHistoryLoadedFlag(t *testing.T) {
	fetcher := &fakeFetcher{}
	s := New(fetcher)
	ch, cancel := s.Subscribe()
	defer cancel()

	s.Ingest(note(1, false, time.Now()))
	ev := <-ch
	assert.False(t, ev.HistoryLoaded)

	require.NoError(t, s.LoadHistory(context.Background()))
	<-ch // history-loaded event

	s.Ingest(note(2, false, time.Now()))
	ev = <-ch
	assert.True(t, ev.HistoryLoaded)
}

func TestCache_SeedsAndWritesThrough(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	cache := &fakeCache{
		seed: []domain.Notification{
			note(1, true, base),
			note(2, false, base.Add(time.Hour)),
		},
		dismissed: []int64{9},
	}
	s := New(nil, WithCache(cache))

	got := s.Notifications()
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, 1, s.UnreadCount())

	// Dismissed IDs from the cache keep suppressing redelivery.
	s.Ingest(note(9, false, base))
	assert.Len(t, s.Notifications(), 2)

	s.Ingest(note(3, false, base.Add(2*time.Hour)))
	s.MarkAsRead(3)
	s.MarkAllAsRead()
	s.Dismiss(2)

	assert.Equal(t, []int64{3}, cache.puts)
	assert.Equal(t, []int64{3}, cache.reads)
	assert.Equal(t, 1, cache.allRead)
	assert.Equal(t, []int64{2}, cache.gone)
}

func TestCache_LoadFailureStartsEmpty(t *testing.T) {
	cache := &fakeCache{loadErr: errors.New("corrupt")}
	s := New(nil, WithCache(cache))
	assert.Empty(t, s.Notifications())
	assert.Equal(t, 0, s.UnreadCount())
}
