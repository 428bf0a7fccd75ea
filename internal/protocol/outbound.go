package protocol

import (
	"encoding/json"
	"errors"
)

var errMissingNotification = errors.New("notification envelope without payload")

// Outbound is the closed set of commands this client may send.
type Outbound interface {
	Encode() ([]byte, error)
}

// MarkAsReadCommand asks the server to flag one notification as read.
type MarkAsReadCommand struct {
	NotificationID int64
}

// Encode serializes the command envelope.
func (c MarkAsReadCommand) Encode() ([]byte, error) {
	return json.Marshal(struct {
		Type           EventType `json:"type"`
		NotificationID int64     `json:"notification_id"`
	}{EventMarkAsRead, c.NotificationID})
}

// MarkAllAsReadCommand asks the server to flag everything as read.
type MarkAllAsReadCommand struct{}

// Encode serializes the command envelope.
func (MarkAllAsReadCommand) Encode() ([]byte, error) {
	return json.Marshal(struct {
		Type EventType `json:"type"`
	}{EventMarkAllAsRead})
}

// PingCommand keeps the connection alive; the server answers with pong.
type PingCommand struct {
	Timestamp string
}

// Encode serializes the command envelope.
func (c PingCommand) Encode() ([]byte, error) {
	return json.Marshal(struct {
		Type      EventType `json:"type"`
		Timestamp string    `json:"timestamp,omitempty"`
	}{EventPing, c.Timestamp})
}

// GetUnreadCountCommand requests the server-side unread total.
type GetUnreadCountCommand struct{}

// Encode serializes the command envelope.
func (GetUnreadCountCommand) Encode() ([]byte, error) {
	return json.Marshal(struct {
		Type EventType `json:"type"`
	}{EventGetUnreadCount})
}
