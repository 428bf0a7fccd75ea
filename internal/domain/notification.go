// Package domain provides the domain layer for storefront notifications.
// It contains the notification entity, value objects, and collection helpers.
package domain

import (
	"fmt"
	"time"
)

// Notification represents a single event delivered to the current user.
// The ID is assigned by the remote service and is stable across the
// history load and the live stream, which makes it the deduplication key.
type Notification struct {
	ID        int64
	Title     string
	Message   string
	Category  Category
	Priority  Priority
	Read      bool
	CreatedAt time.Time
	ActionURL string
}

// Category classifies a notification by the storefront subsystem that
// produced it. The set is open: the server may introduce new values, so
// unknown categories are carried as-is and rendered with the default icon.
type Category string

const (
	CategoryOrder   Category = "order"
	CategoryPayment Category = "payment"
	CategoryStock   Category = "stock"
	CategoryUser    Category = "user"
	CategorySystem  Category = "system"
	CategoryCoupon  Category = "coupon"
)

// IsKnown reports whether the category is one of the documented values.
func (c Category) IsKnown() bool {
	switch c {
	case CategoryOrder, CategoryPayment, CategoryStock,
		CategoryUser, CategorySystem, CategoryCoupon:
		return true
	default:
		return false
	}
}

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}

// Icon returns the glyph used when rendering the category.
// Unknown categories degrade to the bell.
func (c Category) Icon() string {
	switch c {
	case CategoryOrder:
		return "🛒"
	case CategoryPayment:
		return "💳"
	case CategoryStock:
		return "📦"
	case CategoryUser:
		return "👤"
	case CategorySystem:
		return "⚙️"
	case CategoryCoupon:
		return "🎫"
	default:
		return "🔔"
	}
}

// Priority expresses visual emphasis only; it never affects delivery order.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// IsValid checks if the priority is one of the documented values.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// String returns the string representation of the priority.
func (p Priority) String() string {
	return string(p)
}

// Weight orders priorities for emphasis, highest first. Unknown values
// rank with the default presentation.
func (p Priority) Weight() int {
	switch p {
	case PriorityUrgent:
		return 3
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	default:
		return 0
	}
}

// NormalizePriority maps an arbitrary server value onto a Priority,
// degrading unknown values to low.
func NormalizePriority(value string) Priority {
	p := Priority(value)
	if !p.IsValid() {
		return PriorityLow
	}
	return p
}

// Validate validates the notification and returns an error if invalid.
func (n *Notification) Validate() error {
	if n.ID <= 0 {
		return fmt.Errorf("invalid notification ID: %d", n.ID)
	}
	if n.Title == "" && n.Message == "" {
		return fmt.Errorf("notification %d has neither title nor message", n.ID)
	}
	if n.CreatedAt.IsZero() {
		return fmt.Errorf("notification %d has no creation timestamp", n.ID)
	}
	return nil
}

// MarkRead flags the notification as read.
func (n *Notification) MarkRead() *Notification {
	n.Read = true
	return n
}

// MarkUnread clears the read flag.
func (n *Notification) MarkUnread() *Notification {
	n.Read = false
	return n
}
