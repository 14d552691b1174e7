package notification

import (
	"context"

	"github.com/bloodbank/backend/internal/application/donation"
	"go.uber.org/zap"
)

// LogNotifier writes notifications to the log instead of delivering them.
// Used when outbound mail is disabled.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a new LogNotifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger.Named("notification")}
}

// Notify logs the notification
func (n *LogNotifier) Notify(_ context.Context, recipient, subject, body string) error {
	n.logger.Info("notification suppressed, outbound mail disabled",
		zap.String("recipient", recipient),
		zap.String("subject", subject),
		zap.Int("body_length", len(body)),
	)
	return nil
}

// Ensure LogNotifier implements Notifier
var _ donation.Notifier = (*LogNotifier)(nil)
