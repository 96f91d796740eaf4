package mailer

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Enqueuer is whatever puts an email job on the outbound queue. Satisfied by
// helpers.RabbitPublisher in production and by test doubles.
type Enqueuer interface {
	PublishJSON(ctx context.Context, body any) error
}

// Notifier hands templated notifications to the mail queue. It never returns
// an error: delivery is best-effort and the caller's state change must not
// depend on it. The bool reports whether the job was enqueued.
type Notifier struct {
	pub     Enqueuer
	logger  *logrus.Logger
	enabled bool
}

func NewNotifier(pub Enqueuer, logger *logrus.Logger, enabled bool) *Notifier {
	return &Notifier{pub: pub, logger: logger, enabled: enabled}
}

func (n *Notifier) Send(ctx context.Context, template, to string, data map[string]any) bool {
	if n == nil || n.pub == nil || !n.enabled {
		return false
	}
	// Detach from the request context: the response must not wait on the
	// broker, and a canceled request must not lose the notification.
	c, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := n.pub.PublishJSON(c, EmailJob{To: to, Template: template, Data: data}); err != nil {
		if n.logger != nil {
			n.logger.WithError(err).WithFields(logrus.Fields{
				"template": template,
				"to":       to,
			}).Warn("notification enqueue failed")
		}
		return false
	}
	return true
}
