package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sampleCollection() []Notification {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return []Notification{
		{ID: 3, Title: "c", CreatedAt: base.Add(2 * time.Hour)},
		{ID: 2, Title: "b", Read: true, CreatedAt: base.Add(time.Hour)},
		{ID: 1, Title: "a", CreatedAt: base},
	}
}

func TestParseReadFilter(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    ReadFilter
		wantErr bool
	}{
		{"all", "all", ReadFilterAll, false},
		{"unread", "unread", ReadFilterUnread, false},
		{"read", "read", ReadFilterRead, false},
		{"empty means all", "", ReadFilterAll, false},
		{"invalid", "seen", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReadFilter(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadFilter_Apply(t *testing.T) {
	notifications := sampleCollection()

	t.Run("all keeps everything", func(t *testing.T) {
		got := ReadFilterAll.Apply(notifications)
		assert.Len(t, got, 3)
	})

	t.Run("unread", func(t *testing.T) {
		got := ReadFilterUnread.Apply(notifications)
		assert.Len(t, got, 2)
		assert.Equal(t, int64(3), got[0].ID)
		assert.Equal(t, int64(1), got[1].ID)
	})

	t.Run("read", func(t *testing.T) {
		got := ReadFilterRead.Apply(notifications)
		assert.Len(t, got, 1)
		assert.Equal(t, int64(2), got[0].ID)
	})
}

func TestSortNewestFirst(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	notifications := []Notification{
		{ID: 1, Title: "oldest", CreatedAt: base},
		{ID: 3, Title: "newest", CreatedAt: base.Add(2 * time.Hour)},
		{ID: 2, Title: "middle", CreatedAt: base.Add(time.Hour)},
	}

	sorted := SortNewestFirst(notifications)

	assert.Equal(t, int64(3), sorted[0].ID)
	assert.Equal(t, int64(2), sorted[1].ID)
	assert.Equal(t, int64(1), sorted[2].ID)
	// Input order untouched.
	assert.Equal(t, int64(1), notifications[0].ID)
}

func TestSortNewestFirst_StableOnTies(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	notifications := []Notification{
		{ID: 10, CreatedAt: ts, Title: "live"},
		{ID: 11, CreatedAt: ts, Title: "history"},
	}
	sorted := SortNewestFirst(notifications)
	assert.Equal(t, int64(10), sorted[0].ID)
	assert.Equal(t, int64(11), sorted[1].ID)
}

func TestCountUnread(t *testing.T) {
	assert.Equal(t, 2, CountUnread(sampleCollection()))
	assert.Equal(t, 0, CountUnread(nil))
}
