package domain

import "fmt"

// ReadFilter narrows a collection by read state.
type ReadFilter string

const (
	ReadFilterAll    ReadFilter = "all"
	ReadFilterUnread ReadFilter = "unread"
	ReadFilterRead   ReadFilter = "read"
)

// IsValid checks if the read filter is valid.
func (f ReadFilter) IsValid() bool {
	switch f {
	case ReadFilterAll, ReadFilterUnread, ReadFilterRead:
		return true
	default:
		return false
	}
}

// String returns the string representation of the read filter.
func (f ReadFilter) String() string {
	return string(f)
}

// ParseReadFilter parses a string into a ReadFilter. An empty string
// means no filtering.
func ParseReadFilter(value string) (ReadFilter, error) {
	if value == "" {
		return ReadFilterAll, nil
	}
	f := ReadFilter(value)
	if !f.IsValid() {
		return "", fmt.Errorf("invalid read filter: %s", value)
	}
	return f, nil
}

// Matches reports whether the notification passes the filter.
func (f ReadFilter) Matches(n Notification) bool {
	switch f {
	case ReadFilterUnread:
		return !n.Read
	case ReadFilterRead:
		return n.Read
	default:
		return true
	}
}

// Apply returns the notifications that pass the filter, preserving order.
func (f ReadFilter) Apply(notifications []Notification) []Notification {
	if f == ReadFilterAll || f == "" {
		return notifications
	}
	filtered := make([]Notification, 0, len(notifications))
	for _, n := range notifications {
		if f.Matches(n) {
			filtered = append(filtered, n)
		}
	}
	return filtered
}
