package server

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dealsadmin/internal/domain/entity"
	"dealsadmin/internal/domain/service/review"
)

type countingObserver struct {
	open atomic.Int64
}

func (c *countingObserver) ViewOpened() { c.open.Add(1) }
func (c *countingObserver) ViewClosed() { c.open.Add(-1) }

func emptyAPI() *review.DealsAPIMock {
	return &review.DealsAPIMock{
		ListDealsFunc: func(context.Context, entity.DealStatus) ([]entity.Deal, error) {
			return nil, nil
		},
	}
}

func TestViewRegistry(t *testing.T) {
	t.Parallel()
	rq := require.New(t)

	obs := &countingObserver{}
	views := NewViewRegistry(time.Minute, obs)

	pending := views.Get("s-1", viewPending, emptyAPI())
	rq.Same(pending, views.Get("s-1", viewPending, emptyAPI()))
	rq.NotSame(pending, views.Get("s-1", viewAll, emptyAPI()))
	rq.NotSame(pending, views.Get("s-2", viewPending, emptyAPI()))
	rq.EqualValues(3, obs.open.Load())

	views.CloseSession("s-1")
	rq.EqualValues(1, obs.open.Load())
	rq.ErrorIs(pending.Load(context.Background(), entity.StatusAll), review.ErrClosed)

	rq.NotSame(pending, views.Get("s-1", viewPending, emptyAPI()))
}

func TestViewRegistry_ExpiredViewIsClosed(t *testing.T) {
	t.Parallel()
	rq := require.New(t)

	obs := &countingObserver{}
	views := NewViewRegistry(10*time.Millisecond, obs)

	first := views.Get("s-1", viewPending, emptyAPI())

	time.Sleep(20 * time.Millisecond)

	second := views.Get("s-1", viewPending, emptyAPI())
	rq.NotSame(first, second)
	rq.ErrorIs(first.Load(context.Background(), entity.StatusAll), review.ErrClosed)
	rq.NoError(second.Load(context.Background(), entity.StatusAll))
}
