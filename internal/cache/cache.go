// Package cache persists the notification collection between sessions
// in a local SQLite database. The cache is a convenience layer: the
// server remains the source of truth for notification state, but the
// cache lets the panel render instantly and keeps local dismissals from
// resurfacing after a restart.
package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/RobertRaul/storefront-notify/internal/domain"
)

// ErrInvalidNotificationID indicates a non-positive notification ID.
var ErrInvalidNotificationID = errors.New("invalid notification ID")

const schemaSQL = `
CREATE TABLE IF NOT EXISTS notifications (
	id          INTEGER PRIMARY KEY,
	title       TEXT NOT NULL,
	message     TEXT NOT NULL,
	category    TEXT NOT NULL,
	priority    TEXT NOT NULL,
	read        INTEGER NOT NULL DEFAULT 0,
	created_at  TEXT NOT NULL,
	action_url  TEXT NOT NULL DEFAULT '',
	updated_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS dismissed (
	id           INTEGER PRIMARY KEY,
	dismissed_at TEXT NOT NULL
);
`

// SQLiteCache stores the notification collection in a SQLite file.
type SQLiteCache struct {
	db *sql.DB
}

// New opens (and initializes, if needed) the cache at the given path.
func New(dbPath string) (*SQLiteCache, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("notification cache: db path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("notification cache: create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("notification cache: open db: %w", err)
	}

	c := &SQLiteCache{db: db}
	if err := c.init(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return c, nil
}

// Close closes the underlying SQLite connection.
func (c *SQLiteCache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *SQLiteCache) init() error {
	if _, err := c.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("notification cache: set busy timeout: %w", err)
	}
	if _, err := c.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("notification cache: create schema: %w", err)
	}
	return nil
}

// Load returns every cached notification plus the set of locally
// dismissed IDs.
func (c *SQLiteCache) Load() ([]domain.Notification, []int64, error) {
	rows, err := c.db.Query(`SELECT id, title, message, category, priority, read, created_at, action_url
		FROM notifications ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, nil, fmt.Errorf("notification cache: load notifications: %w", err)
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var (
			n         domain.Notification
			category  string
			priority  string
			read      int64
			createdAt string
		)
		if err := rows.Scan(&n.ID, &n.Title, &n.Message, &category, &priority, &read, &createdAt, &n.ActionURL); err != nil {
			return nil, nil, fmt.Errorf("notification cache: scan notification: %w", err)
		}
		n.Category = domain.Category(category)
		n.Priority = domain.NormalizePriority(priority)
		n.Read = read != 0
		at, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			continue
		}
		n.CreatedAt = at
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("notification cache: load notifications: %w", err)
	}

	dismissed, err := c.loadDismissed()
	if err != nil {
		return nil, nil, err
	}
	return notifications, dismissed, nil
}

func (c *SQLiteCache) loadDismissed() ([]int64, error) {
	rows, err := c.db.Query(`SELECT id FROM dismissed`)
	if err != nil {
		return nil, fmt.Errorf("notification cache: load dismissed: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("notification cache: scan dismissed: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Put upserts one notification. An existing row keeps its read flag so a
// history re-fetch never reverts a local read mark.
func (c *SQLiteCache) Put(n domain.Notification) error {
	if n.ID <= 0 {
		return fmt.Errorf("notification cache: %w", ErrInvalidNotificationID)
	}
	_, err := c.db.Exec(`INSERT INTO notifications
		(id, title, message, category, priority, read, created_at, action_url, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			message = excluded.message,
			category = excluded.category,
			priority = excluded.priority,
			action_url = excluded.action_url,
			updated_at = excluded.updated_at`,
		n.ID, n.Title, n.Message, string(n.Category), string(n.Priority),
		boolToInt(n.Read), n.CreatedAt.UTC().Format(time.RFC3339Nano), n.ActionURL, utcNow())
	if err != nil {
		return fmt.Errorf("notification cache: put notification: %w", err)
	}
	return nil
}

// SetRead updates the read flag of one cached row. A missing row is not
// an error; the cache may simply not have seen the entry.
func (c *SQLiteCache) SetRead(id int64, read bool) error {
	if id <= 0 {
		return fmt.Errorf("notification cache: %w", ErrInvalidNotificationID)
	}
	_, err := c.db.Exec(`UPDATE notifications SET read = ?, updated_at = ? WHERE id = ?`,
		boolToInt(read), utcNow(), id)
	if err != nil {
		return fmt.Errorf("notification cache: set read: %w", err)
	}
	return nil
}

// SetAllRead marks every cached row read.
func (c *SQLiteCache) SetAllRead() error {
	_, err := c.db.Exec(`UPDATE notifications SET read = 1, updated_at = ? WHERE read = 0`, utcNow())
	if err != nil {
		return fmt.Errorf("notification cache: set all read: %w", err)
	}
	return nil
}

// Dismiss removes the row and records the ID so later loads keep
// suppressing it.
func (c *SQLiteCache) Dismiss(id int64) error {
	if id <= 0 {
		return fmt.Errorf("notification cache: %w", ErrInvalidNotificationID)
	}
	if _, err := c.db.Exec(`DELETE FROM notifications WHERE id = ?`, id); err != nil {
		return fmt.Errorf("notification cache: dismiss: %w", err)
	}
	if _, err := c.db.Exec(`INSERT OR IGNORE INTO dismissed (id, dismissed_at) VALUES (?, ?)`,
		id, utcNow()); err != nil {
		return fmt.Errorf("notification cache: record dismissal: %w", err)
	}
	return nil
}

// Cleanup drops dismissal records older than the threshold so the table
// does not grow without bound. Returns the number of rows removed.
func (c *SQLiteCache) Cleanup(daysThreshold int) (int64, error) {
	if daysThreshold < 0 {
		return 0, fmt.Errorf("notification cache: days threshold must be >= 0")
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -daysThreshold).Format(time.RFC3339)
	res, err := c.db.Exec(`DELETE FROM dismissed WHERE dismissed_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("notification cache: cleanup dismissed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("notification cache: cleanup rows affected: %w", err)
	}
	return n, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func utcNow() string {
	return time.Now().UTC().Format(time.RFC3339)
}
