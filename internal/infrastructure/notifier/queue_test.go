package notifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"dealsadmin/internal/domain/entity"
)

func TestQueuePublishDropsWhenFull(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	q := NewQueue(1)

	q.Publish(ctx, entity.Event{Kind: entity.EventDealApproved, Deal: entity.Deal{ID: "d-1"}})
	q.Publish(ctx, entity.Event{Kind: entity.EventDealApproved, Deal: entity.Deal{ID: "d-2"}})

	rq.Len(q.Events(), 1)

	ev := <-q.Events()
	rq.Equal(entity.DealID("d-1"), ev.Deal.ID)
}

func TestDiscardPublish(t *testing.T) {
	require.NotPanics(t, func() {
		Discard{}.Publish(context.Background(), entity.Event{})
	})
}
