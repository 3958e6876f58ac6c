package ports

import "context"

// Mailer delivers transactional email synchronously.
type Mailer interface {
	SendWelcome(ctx context.Context, email, name string) error
	SendCancellation(ctx context.Context, email, name string) error
}

// Notifier enqueues transactional email for asynchronous, best-effort
// delivery. Calls never block the request path and never report failure to
// the caller.
type Notifier interface {
	NotifyWelcome(email, name string)
	NotifyCancellation(email, name string)
}
