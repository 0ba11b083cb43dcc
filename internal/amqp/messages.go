package amqp

import (
	"encoding/json"
	"time"

	"meudinheiro/internal/core"
)

// NotificationMessage mirrors a notification pushed to the in-app queue so
// other consumers can forward it elsewhere.
type NotificationMessage struct {
	ID        string                `json:"id"`
	Message   string                `json:"message"`
	Type      core.NotificationKind `json:"type"`
	Timestamp time.Time             `json:"timestamp"`
}

// NewNotificationMessage wraps n with the current time.
func NewNotificationMessage(n core.Notification) *NotificationMessage {
	return &NotificationMessage{
		ID:        n.ID,
		Message:   n.Message,
		Type:      n.Type,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *NotificationMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// NotificationMessageFromJSON creates a message from JSON bytes
func NotificationMessageFromJSON(data []byte) (*NotificationMessage, error) {
	var msg NotificationMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
