package tray

import (
	"context"
	"sync"
	"time"

	"github.com/RobertRaul/storefront-notify/internal/domain"
	"github.com/RobertRaul/storefront-notify/internal/store"
)

const (
	// DefaultToastDuration is how long a toast stays up.
	DefaultToastDuration = 6000 * time.Millisecond
	// DefaultToastTick is the countdown resolution.
	DefaultToastTick = 50 * time.Millisecond
)

// Toast is one visible popup with its remaining lifetime.
type Toast struct {
	Notification domain.Notification
	Remaining    time.Duration
}

// ToastManager decides which arrivals earn a popup and counts each
// popup down to expiry. Only a live unread entry ingested after the
// history load earns one; historical entries and read arrivals never
// pop.
type ToastManager struct {
	duration time.Duration
	tick     time.Duration
	tickChan <-chan time.Time
	onChange func([]Toast)

	mu     sync.Mutex
	active []Toast
}

// ToastOption configures a ToastManager.
type ToastOption func(*ToastManager)

// WithToastDuration overrides the popup lifetime.
func WithToastDuration(d time.Duration) ToastOption {
	return func(m *ToastManager) { m.duration = d }
}

// WithToastTick overrides the countdown resolution.
func WithToastTick(d time.Duration) ToastOption {
	return func(m *ToastManager) { m.tick = d }
}

// WithTickChan injects the tick source (tests). When nil, Run creates a
// real ticker.
func WithTickChan(ch <-chan time.Time) ToastOption {
	return func(m *ToastManager) { m.tickChan = ch }
}

// WithOnChange registers a callback invoked with the active set after
// every change.
func WithOnChange(fn func([]Toast)) ToastOption {
	return func(m *ToastManager) { m.onChange = fn }
}

// NewToastManager creates a manager with the default timings.
func NewToastManager(opts ...ToastOption) *ToastManager {
	m := &ToastManager{
		duration: DefaultToastDuration,
		tick:     DefaultToastTick,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run drives the countdown until the context ends.
func (m *ToastManager) Run(ctx context.Context) {
	tickChan := m.tickChan
	if tickChan == nil {
		ticker := time.NewTicker(m.tick)
		defer ticker.Stop()
		tickChan = ticker.C
	}
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-tickChan:
			if !ok {
				return
			}
			m.advance()
		}
	}
}

// HandleEvent feeds one store event through the popup policy.
func (m *ToastManager) HandleEvent(ev store.Event) {
	switch ev.Kind {
	case store.KindIngested:
		if ev.Notification == nil || ev.Notification.Read || !ev.HistoryLoaded {
			return
		}
		m.show(*ev.Notification)
	case store.KindUpdated, store.KindRemoved:
		// A read mark or dismissal takes its popup down immediately.
		if ev.Notification != nil {
			m.Cancel(ev.Notification.ID)
		}
	case store.KindMarkedAllRead:
		m.CancelAll()
	}
}

func (m *ToastManager) show(n domain.Notification) {
	m.mu.Lock()
	for _, t := range m.active {
		if t.Notification.ID == n.ID {
			m.mu.Unlock()
			return
		}
	}
	m.active = append(m.active, Toast{Notification: n, Remaining: m.duration})
	m.mu.Unlock()
	m.notify()
}

// advance counts every active toast down by one tick and drops the
// expired ones.
func (m *ToastManager) advance() {
	m.mu.Lock()
	changed := len(m.active) > 0
	kept := m.active[:0]
	for _, t := range m.active {
		t.Remaining -= m.tick
		if t.Remaining > 0 {
			kept = append(kept, t)
		}
	}
	m.active = kept
	m.mu.Unlock()
	if changed {
		m.notify()
	}
}

// Cancel takes one popup down before expiry.
func (m *ToastManager) Cancel(id int64) {
	m.mu.Lock()
	kept := m.active[:0]
	removed := false
	for _, t := range m.active {
		if t.Notification.ID == id {
			removed = true
			continue
		}
		kept = append(kept, t)
	}
	m.active = kept
	m.mu.Unlock()
	if removed {
		m.notify()
	}
}

// CancelAll clears every popup.
func (m *ToastManager) CancelAll() {
	m.mu.Lock()
	had := len(m.active) > 0
	m.active = nil
	m.mu.Unlock()
	if had {
		m.notify()
	}
}

// Active returns a copy of the visible popups in arrival order.
func (m *ToastManager) Active() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Toast, len(m.active))
	copy(out, m.active)
	return out
}

func (m *ToastManager) notify() {
	if m.onChange != nil {
		m.onChange(m.Active())
	}
}
