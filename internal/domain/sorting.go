package domain

import "sort"

// SortNewestFirst orders notifications by creation timestamp descending.
// Ties keep their relative order so freshly prepended live entries stay
// in front of history entries carrying the same timestamp.
func SortNewestFirst(notifications []Notification) []Notification {
	sorted := make([]Notification, len(notifications))
	copy(sorted, notifications)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	return sorted
}

// CountUnread recounts unread notifications from scratch. The store keeps
// its counter incrementally; this is the ground truth it must agree with.
func CountUnread(notifications []Notification) int {
	count := 0
	for _, n := range notifications {
		if !n.Read {
			count++
		}
	}
	return count
}
