package cli

import (
	"context"

	"go.uber.org/zap"

	"github.com/goliatone/go-jsonform/pkg/submission"
)

// logAccepted records accepted submissions. Values are not logged.
func logAccepted(logger *zap.Logger) func(context.Context, submission.Acknowledgment) {
	return func(_ context.Context, ack submission.Acknowledgment) {
		logger.Info("submission accepted",
			zap.String("id", ack.ID),
			zap.String("form", ack.Title),
			zap.Int("fields", len(ack.Values)),
		)
	}
}
