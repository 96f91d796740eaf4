package application

import "context"

// Notifier is the outbound-notification seam. The production implementation
// (pkg/mailer.Notifier) enqueues onto RabbitMQ; tests substitute doubles.
// Send reports success but never fails the caller.
type Notifier interface {
	Send(ctx context.Context, template, to string, data map[string]any) bool
}
