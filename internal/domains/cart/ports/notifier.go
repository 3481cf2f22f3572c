package ports

import (
	"context"

	"github.com/google/uuid"
)

// Severity classifies a notification for the UI side channel.
type Severity string

const (
	SeverityError Severity = "error"
	SeverityInfo  Severity = "info"
)

// Notification is a human-readable outcome message for the end user.
type Notification struct {
	ID       string
	Message  string
	Severity Severity
}

// NewNotification builds a notification with a fresh identifier.
func NewNotification(severity Severity, message string) Notification {
	return Notification{
		ID:       uuid.NewString(),
		Message:  message,
		Severity: severity,
	}
}

// Notifier delivers outcome messages to the user-facing side channel.
// Delivery is best effort; implementations must not block mutations.
type Notifier interface {
	Notify(ctx context.Context, notification Notification)
}

// NoopNotifier discards every notification.
var NoopNotifier Notifier = noopNotifier{}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, Notification) {}
