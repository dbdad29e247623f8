package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"

	"dealsadmin/internal/domain/entity"
	"dealsadmin/pkg/contextx"
	"dealsadmin/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const defaultSeenTTL = 24 * time.Hour

type pendingLister interface {
	ListDeals(ctx context.Context, status entity.DealStatus) ([]entity.Deal, error)
}

type pendingGauge interface {
	SetPendingDeals(n int)
}

type eventPublisher interface {
	Publish(ctx context.Context, event entity.Event)
}

// PendingWatcher polls the review queue and announces deals that entered it
// since the previous poll.
type PendingWatcher struct {
	api      pendingLister
	gauge    pendingGauge
	events   eventPublisher
	interval time.Duration

	// Deals still pending keep their entry alive, so each is announced once.
	seen   *cache.Cache
	primed bool
}

func NewPendingWatcher(
	api pendingLister,
	gauge pendingGauge,
	events eventPublisher,
	interval time.Duration,
) *PendingWatcher {
	return &PendingWatcher{
		api:      api,
		gauge:    gauge,
		events:   events,
		interval: interval,
		seen:     cache.New(defaultSeenTTL, time.Hour),
	}
}

func (w *PendingWatcher) WithSeenTTL(ttl time.Duration) *PendingWatcher {
	w.seen = cache.New(ttl, ttl)

	return w
}

// Run polls until ctx is done. Poll failures are logged and retried on the
// next tick.
func (w *PendingWatcher) Run(ctx context.Context) error {
	if w.interval <= 0 {
		return fmt.Errorf("pending watcher: invalid interval %s", w.interval)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.scan(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err() //nolint:wrapcheck
		case <-ticker.C:
			w.scan(ctx)
		}
	}
}

// scan returns how many deals were announced.
func (w *PendingWatcher) scan(ctx context.Context) int {
	deals, err := w.api.ListDeals(ctx, entity.StatusPendingValidation)
	if err != nil {
		if ctx.Err() == nil {
			logger(ctx).Error("api.ListDeals", logx.Error(err))
		}

		return 0
	}

	w.gauge.SetPendingDeals(len(deals))

	announced := 0

	for _, deal := range deals {
		key := deal.ID.String()

		_, known := w.seen.Get(key)
		w.seen.SetDefault(key, struct{}{})

		if known || !w.primed {
			continue
		}

		w.events.Publish(ctx, entity.Event{
			Kind:       entity.EventDealPending,
			Deal:       deal,
			OccurredAt: time.Now(),
		})

		announced++
	}

	if !w.primed {
		w.primed = true

		logger(ctx).Info("pending queue primed", slog.Int("pending", len(deals)))

		return 0
	}

	if announced > 0 {
		logger(ctx).Info("new pending deals", slog.Int("count", announced), slog.Int("pending", len(deals)))
	}

	return announced
}
