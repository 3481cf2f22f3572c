package notify

import (
	"context"
	"log/slog"
	"os"

	"github.com/storely/cart-service/internal/domains/cart/ports"
)

var _ ports.Notifier = (*LogNotifier)(nil)

// LogNotifier writes user-facing notifications to the structured log.
// It stands in for the toast channel a browser frontend would render.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, notification ports.Notification) {
	level := slog.LevelInfo
	if notification.Severity == ports.SeverityError {
		level = slog.LevelError
	}
	n.logger.LogAttrs(ctx, level, "cart notification",
		slog.String("notification.id", notification.ID),
		slog.String("notification.message", notification.Message),
		slog.String("notification.severity", string(notification.Severity)),
	)
}
