// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "docvault/internal/delivery/context"
	"docvault/internal/domain/service"
	"docvault/internal/util"

	"github.com/google/uuid"
)

// UserLocks serializes uploads and account deletion of the same user.
type UserLocks struct {
	util.KeyedMutex[uuid.UUID]
}

// NewUserLocks is the constructor for UserLocks.
func NewUserLocks() *UserLocks {
	return &UserLocks{}
}

func requestLogger(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, fallback)
}

// publishEvent is best effort: a failing broker never fails the operation that raised the event.
func publishEvent(ctx context.Context, publisher service.EventPublisher, logger *slog.Logger, event *service.AccountEvent) {
	if publisher == nil {
		return
	}

	event.RequestID = deliverycontext.GetRequestIDFromContext(ctx)
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	if err := publisher.PublishAccountEvent(ctx, event); err != nil {
		requestLogger(ctx, logger).Warn("Failed to publish account event",
			slog.String("event_type", event.Type),
			slog.String("user_id", event.UserID),
			slog.Any("error", err),
		)
	}
}
