package core

const (
	Success NotificationKind = "SUCCESS"
	Warning NotificationKind = "WARNING"
	Error   NotificationKind = "ERROR"
	Info    NotificationKind = "INFO"
)

// NotificationKind classifies a toast message.
type NotificationKind string

func (k NotificationKind) IsValid() bool {
	switch k {
	case Success, Warning, Error, Info:
		return true
	}
	return false
}

// Notification is a transient message owned by the notification queue.
type Notification struct {
	ID      string           `json:"id"`
	Message string           `json:"message"`
	Type    NotificationKind `json:"type"`
}
