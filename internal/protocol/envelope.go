// Package protocol defines the message envelopes exchanged with the
// notification service, over both the live stream and the REST fallback.
// Inbound messages form a closed tagged union discriminated by the "type"
// field; anything that does not match is reported as unknown and ignored
// by callers rather than surfaced as an error.
package protocol

import (
	"fmt"
	"time"

	"github.com/RobertRaul/storefront-notify/internal/domain"
)

// EventType discriminates envelopes on the wire.
type EventType string

const (
	// Server -> client.
	EventNotification          EventType = "notification"
	EventConnectionEstablished EventType = "connection_established"
	EventUnreadCount           EventType = "unread_count"
	EventPong                  EventType = "pong"

	// Client -> server.
	EventMarkAsRead     EventType = "mark_as_read"
	EventMarkAllAsRead  EventType = "mark_all_as_read"
	EventPing           EventType = "ping"
	EventGetUnreadCount EventType = "get_unread_count"
)

// Notification is the wire representation shared by the stream payloads
// and the REST history endpoint.
type Notification struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	Priority  string `json:"priority"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
	ActionURL string `json:"action_url,omitempty"`
}

// ToDomain converts the wire notification into the domain entity.
// A missing or unparseable timestamp falls back to the receive time,
// since live events are assumed newer than anything already stored.
func (w Notification) ToDomain() (domain.Notification, error) {
	if w.ID <= 0 {
		return domain.Notification{}, fmt.Errorf("notification payload has invalid id: %d", w.ID)
	}
	createdAt := parseTimestamp(w.CreatedAt)
	n := domain.Notification{
		ID:        w.ID,
		Title:     w.Title,
		Message:   w.Message,
		Category:  domain.Category(w.Type),
		Priority:  domain.NormalizePriority(w.Priority),
		Read:      w.Read,
		CreatedAt: createdAt,
		ActionURL: w.ActionURL,
	}
	if err := n.Validate(); err != nil {
		return domain.Notification{}, err
	}
	return n, nil
}

// FromDomain converts a domain notification back to the wire shape.
func FromDomain(n domain.Notification) Notification {
	return Notification{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Category.String(),
		Priority:  n.Priority.String(),
		Read:      n.Read,
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
		ActionURL: n.ActionURL,
	}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseTimestamp(value string) time.Time {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return time.Now().UTC()
}
