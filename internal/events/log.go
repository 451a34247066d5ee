package events

import (
	"context"

	"github.com/fyrsmithlabs/cectoolkit/internal/logging"
	"go.uber.org/zap"
)

// LogHandler writes one info line per event.
func LogHandler(logger *logging.Logger) Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return HandlerFunc(func(ctx context.Context, e Event) error {
		fields := []zap.Field{
			zap.String("event.id", e.ID),
			zap.String("ticket.kind", e.Kind),
			zap.String("result", e.Result()),
			zap.Int("fields", e.Fields),
			zap.Int("missing", e.Missing),
			zap.Duration("duration", e.Duration),
		}
		if e.ReasonCode != "" {
			fields = append(fields, zap.String("reason_code", e.ReasonCode))
		}
		if e.Errors > 0 {
			fields = append(fields, zap.Int("errors", e.Errors))
		}
		logger.Info(ctx, "ticket processed", fields...)
		return nil
	})
}
