package notifier

import (
	"context"
	"log/slog"

	"dealsadmin/internal/domain/entity"
	"dealsadmin/pkg/contextx"
	"dealsadmin/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Queue hands events to the bot without blocking the publisher. When the
// buffer is full the event is dropped.
type Queue struct {
	events chan entity.Event
}

func NewQueue(size int) *Queue {
	return &Queue{
		events: make(chan entity.Event, size),
	}
}

func (q *Queue) Publish(ctx context.Context, event entity.Event) {
	select {
	case q.events <- event:
	default:
		logger(ctx).Warn(
			"notification dropped, queue is full",
			slog.String(logx.FieldDealID, event.Deal.ID.String()),
			slog.String("kind", string(event.Kind)),
		)
	}
}

func (q *Queue) Events() <-chan entity.Event {
	return q.events
}

// Discard is a publisher for when notifications are disabled.
type Discard struct{}

func (Discard) Publish(context.Context, entity.Event) {}
