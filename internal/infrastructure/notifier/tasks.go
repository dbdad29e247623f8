package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"

	"dealsadmin/internal/domain/entity"
	"dealsadmin/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

const (
	TypeDealEvent = "deal:event"
	// TaskQueueName is the asynq queue the notifier consumes.
	TaskQueueName = "notifications"
)

type eventPayload struct {
	Kind       entity.EventKind `json:"kind"`
	Deal       entity.Deal      `json:"deal"`
	Operator   string           `json:"operator,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

func NewEventTask(event entity.Event) (*asynq.Task, error) {
	payload, err := json.Marshal(eventPayload{
		Kind:       event.Kind,
		Deal:       event.Deal,
		Operator:   event.Operator,
		OccurredAt: event.OccurredAt,
	})
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return asynq.NewTask(TypeDealEvent, payload), nil
}

func ParseEventTask(task *asynq.Task) (entity.Event, error) {
	var p eventPayload

	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return entity.Event{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	return entity.Event{
		Kind:       p.Kind,
		Deal:       p.Deal,
		Operator:   p.Operator,
		OccurredAt: p.OccurredAt,
	}, nil
}

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// TaskQueue publishes events as asynq tasks so that they survive restarts
// and are retried when Telegram is unavailable.
type TaskQueue struct {
	client   enqueuer
	maxRetry int
}

func NewTaskQueue(client enqueuer, maxRetry int) *TaskQueue {
	return &TaskQueue{
		client:   client,
		maxRetry: maxRetry,
	}
}

// Publish never blocks the caller on delivery. An event that cannot be
// enqueued is logged and dropped.
func (q *TaskQueue) Publish(ctx context.Context, event entity.Event) {
	log := logger(ctx).With(
		slog.String(logx.FieldDealID, event.Deal.ID.String()),
		slog.String("kind", string(event.Kind)),
	)

	task, err := NewEventTask(event)
	if err != nil {
		log.Error("notifier.NewEventTask", logx.Error(err))

		return
	}

	info, err := q.client.EnqueueContext(ctx, task, asynq.Queue(TaskQueueName), asynq.MaxRetry(q.maxRetry))
	if err != nil {
		log.Warn("notification dropped, enqueue failed", logx.Error(err))

		return
	}

	log.Debug("notification enqueued", slog.String("task-id", info.ID))
}

// HandleEventTask delivers one queued event. A payload that cannot be
// decoded is not retried.
func (b *TelegramBot) HandleEventTask(ctx context.Context, task *asynq.Task) error {
	event, err := ParseEventTask(task)
	if err != nil {
		return fmt.Errorf("notifier.ParseEventTask: %w: %w", err, asynq.SkipRetry)
	}

	if err := b.SendEvent(ctx, event); err != nil {
		return fmt.Errorf("bot.SendEvent: %w", err)
	}

	return nil
}
