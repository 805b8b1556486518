package display

import (
	"context"

	"github.com/hammamikhairi/clipspeak/internal/domain"
	"github.com/hammamikhairi/clipspeak/internal/logger"
)

// Compile-time interface check.
var _ domain.Notifier = (*CLINotifier)(nil)

// PrintFunc prints one line of already-formatted text.
type PrintFunc func(text string)

// CLINotifier delivers notifications as console lines.
type CLINotifier struct {
	log    *logger.Logger
	normal PrintFunc
	urgent PrintFunc
}

// NewCLINotifier creates a notifier that prints through the console.
func NewCLINotifier(console *Console, log *logger.Logger) *CLINotifier {
	return &CLINotifier{log: log, normal: console.PrintHint, urgent: console.PrintUrgent}
}

// NewCLINotifierFunc creates a notifier from raw print functions.
func NewCLINotifierFunc(normal, urgent PrintFunc, log *logger.Logger) *CLINotifier {
	return &CLINotifier{log: log, normal: normal, urgent: urgent}
}

// Notify prints a normal notification.
func (n *CLINotifier) Notify(ctx context.Context, message string) error {
	n.log.Debug("notify: %s", message)
	n.normal(message)
	return nil
}

// NotifyUrgent prints an urgent notification.
func (n *CLINotifier) NotifyUrgent(ctx context.Context, message string) error {
	n.log.Debug("notify-urgent: %s", message)
	n.urgent(message)
	return nil
}
