// Package notify delivers out-of-band messages to users. Delivery failures are
// reported to the caller but never undo the operation that triggered them.
package notify

import (
	"context"

	"github.com/dmitrijs2005/cyberspace/internal/logging"
)

// Kind selects the message template.
type Kind string

const (
	KindWelcome       Kind = "welcome"
	KindPasswordReset Kind = "password_reset"
)

// Notifier sends a message of kind to the destination address.
type Notifier interface {
	Notify(ctx context.Context, to string, kind Kind, params map[string]string) error
}

// LoggingNotifier records notifications instead of sending them. Used when no
// SMTP host is configured.
type LoggingNotifier struct {
	logger logging.Logger
}

func NewLoggingNotifier(logger logging.Logger) *LoggingNotifier {
	return &LoggingNotifier{logger: logger.With("module", "notify")}
}

func (n *LoggingNotifier) Notify(ctx context.Context, to string, kind Kind, params map[string]string) error {
	if _, err := render(kind, params); err != nil {
		return err
	}
	n.logger.Info(ctx, "notification not sent, smtp disabled", "to", logging.MaskEmail(to), "kind", string(kind))
	return nil
}
