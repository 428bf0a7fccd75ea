package cmd

import (
	"context"
	"fmt"
	"sync"

	"github.com/RobertRaul/storefront-notify/internal/app"
	"github.com/RobertRaul/storefront-notify/internal/domain"
)

var (
	sessionOnce   sync.Once
	sharedSession *app.Session
	sessionErr    error
)

// defaultSession lazily wires the shared one-shot session. Streaming
// commands build their own because they select different options.
func defaultSession() (*app.Session, error) {
	sessionOnce.Do(func() {
		sharedSession, sessionErr = app.NewSession(app.Options{EnableCache: true})
	})
	if sessionErr != nil {
		return nil, fmt.Errorf("session setup: %w", sessionErr)
	}
	return sharedSession, nil
}

// restDeps adapts the lazily-built session for the one-shot commands.
type restDeps struct{}

func (restDeps) FetchHistory(ctx context.Context) ([]domain.Notification, error) {
	s, err := defaultSession()
	if err != nil {
		return nil, err
	}
	return s.API.FetchHistory(ctx)
}

func (restDeps) MarkAsRead(ctx context.Context, id int64) error {
	s, err := defaultSession()
	if err != nil {
		return err
	}
	return s.API.MarkAsRead(ctx, id)
}

func (restDeps) MarkAllAsRead(ctx context.Context) error {
	s, err := defaultSession()
	if err != nil {
		return err
	}
	return s.API.MarkAllAsRead(ctx)
}

func (restDeps) Cleanup(daysThreshold int) (int64, error) {
	s, err := defaultSession()
	if err != nil {
		return 0, err
	}
	if s.Cache == nil {
		return 0, fmt.Errorf("cleanup: local cache unavailable")
	}
	return s.Cache.Cleanup(daysThreshold)
}

func (restDeps) Dismiss(id int64) error {
	s, err := defaultSession()
	if err != nil {
		return err
	}
	if s.Cache == nil {
		return fmt.Errorf("dismiss: local cache unavailable")
	}
	return s.Cache.Dismiss(id)
}

var coreDeps = restDeps{}
