package kol

import "context"

// NotificationLevel classifies user-facing notifications.
type NotificationLevel string

const (
	NotifySuccess NotificationLevel = "success"
	NotifyError   NotificationLevel = "error"
)

// Notification is a transient user-facing message (a toast in the browser).
type Notification struct {
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
}

// Notifier forwards notifications to whatever surface the host application
// uses. Network errors are surfaced here exactly once and never retried.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, Notification) error { return nil }

func normalizeNotifier(n Notifier) Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}
