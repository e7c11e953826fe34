package notifier

import (
	"context"

	"github.com/fjod/go_storefront/pkg/logger"
	"go.uber.org/zap"
)

// LogNotifier only logs the message. Used when no delivery backend is set up.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(l *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.OrNop(l)}
}

func (n *LogNotifier) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	logger.WithContext(ctx, n.logger).Info("email delivery disabled, logging confirmation",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body))
	return nil
}
