package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"dealsadmin/internal/domain/entity"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}

	f.tasks = append(f.tasks, task)
	f.opts = append(f.opts, opts)

	return &asynq.TaskInfo{ID: "task-1"}, nil
}

func testEvent() entity.Event {
	return entity.Event{
		Kind:       entity.EventDealApproved,
		Deal:       testDeal(),
		Operator:   "ops@example.com",
		OccurredAt: time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC),
	}
}

func TestTaskQueue_Publish(t *testing.T) {
	t.Run("Enqueued on notifications queue", func(t *testing.T) {
		rq := require.New(t)

		client := &fakeEnqueuer{}
		NewTaskQueue(client, 3).Publish(context.Background(), testEvent())

		rq.Len(client.tasks, 1)
		rq.Equal(TypeDealEvent, client.tasks[0].Type())

		options := map[asynq.OptionType]any{}
		for _, opt := range client.opts[0] {
			options[opt.Type()] = opt.Value()
		}

		rq.Equal(TaskQueueName, options[asynq.QueueOpt])
		rq.Equal(3, options[asynq.MaxRetryOpt])

		event, err := ParseEventTask(client.tasks[0])
		rq.NoError(err)
		rq.Equal(entity.EventDealApproved, event.Kind)
		rq.Equal(entity.DealID("d-1"), event.Deal.ID)
		rq.Equal("ops@example.com", event.Operator)
		rq.True(event.OccurredAt.Equal(testEvent().OccurredAt))
		rq.True(event.Deal.AskingPrice.Equal(testDeal().AskingPrice))
	})

	t.Run("Enqueue failure is swallowed", func(t *testing.T) {
		rq := require.New(t)

		client := &fakeEnqueuer{err: errors.New("redis down")}

		rq.NotPanics(func() {
			NewTaskQueue(client, 3).Publish(context.Background(), testEvent())
		})
		rq.Empty(client.tasks)
	})
}

func TestHandleEventTask(t *testing.T) {
	validTask, err := NewEventTask(testEvent())
	require.NoError(t, err)

	testCases := []struct {
		name      string
		task      *asynq.Task
		sendErr   error
		wantSent  int
		wantErr   bool
		wantRetry bool
	}{
		{name: "Delivered", task: validTask, wantSent: 1},
		{name: "Send failure is retried", task: validTask, sendErr: errors.New("telegram down"), wantSent: 1, wantErr: true, wantRetry: true},
		{name: "Broken payload is skipped", task: asynq.NewTask(TypeDealEvent, []byte("{")), wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			sender := &fakeSender{err: tc.sendErr}
			bot := &TelegramBot{bot: sender, chatID: -100}

			err := bot.HandleEventTask(context.Background(), tc.task)

			rq.Len(sender.messages(), tc.wantSent)

			if !tc.wantErr {
				rq.NoError(err)
				rq.Contains(sender.messages()[0].Text, "Villa &amp; Garden")

				return
			}

			rq.Error(err)
			rq.Equal(!tc.wantRetry, errors.Is(err, asynq.SkipRetry))
		})
	}
}
