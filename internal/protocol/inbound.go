package protocol

import "encoding/json"

// Inbound is the closed set of messages the server may send. Consumers
// switch over the concrete types; UnknownMessage is the explicit
// ignore arm for types this client does not understand.
type Inbound interface {
	inbound()
}

// NotificationMessage carries one live notification.
type NotificationMessage struct {
	Notification Notification
}

// ConnectionEstablishedMessage is the greeting sent right after connect.
type ConnectionEstablishedMessage struct {
	Message string
	User    string
}

// UnreadCountMessage reports the server-side unread total.
type UnreadCountMessage struct {
	Count int
}

// PongMessage answers a client ping.
type PongMessage struct{}

// UnknownMessage wraps any envelope with an unrecognized type tag.
type UnknownMessage struct {
	Type EventType
}

func (NotificationMessage) inbound()          {}
func (ConnectionEstablishedMessage) inbound() {}
func (UnreadCountMessage) inbound()           {}
func (PongMessage) inbound()                  {}
func (UnknownMessage) inbound()               {}

// rawInbound covers every field any inbound envelope may carry.
type rawInbound struct {
	Type         EventType     `json:"type"`
	Notification *Notification `json:"notification"`
	Message      string        `json:"message"`
	User         string        `json:"user"`
	Count        int           `json:"count"`
}

// ParseInbound decodes one inbound envelope. It returns an error only
// for bodies that are not a JSON object or notification envelopes with
// no usable payload; unknown type tags decode to UnknownMessage.
func ParseInbound(data []byte) (Inbound, error) {
	var raw rawInbound
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	switch raw.Type {
	case EventNotification:
		if raw.Notification == nil {
			return nil, errMissingNotification
		}
		return NotificationMessage{Notification: *raw.Notification}, nil
	case EventConnectionEstablished:
		return ConnectionEstablishedMessage{Message: raw.Message, User: raw.User}, nil
	case EventUnreadCount:
		return UnreadCountMessage{Count: raw.Count}, nil
	case EventPong:
		return PongMessage{}, nil
	default:
		return UnknownMessage{Type: raw.Type}, nil
	}
}
