package dispatch

import (
	"context"
	"log/slog"

	"residency/internal/verification/models"
	id "residency/pkg/domain"
)

// LogDispatcher writes effects to the structured log. It is the dispatcher
// when no brokers are configured and the fallback when Kafka is down, so
// operators can replay mail requests from the logs.
type LogDispatcher struct {
	logger *slog.Logger
}

func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Dispatch(ctx context.Context, citizenID id.CitizenID, result *models.Result) error {
	for _, msg := range Messages(ctx, citizenID, result) {
		d.logger.InfoContext(ctx, "verification effect",
			"request_id", msg.RequestID,
			"citizen_id", msg.CitizenID,
			"effect", msg.Effect,
			"status", msg.Status,
			"reason", msg.Reason,
		)
	}
	return nil
}
