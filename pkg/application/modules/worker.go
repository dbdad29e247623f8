package modules

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Worker runs a long-lived background loop. Returning because ctx was
// cancelled is a normal stop, not a failure of the group.
type Worker struct {
	Name string
}

func (w Worker) Run(
	ctx context.Context,
	g *errgroup.Group,
	run func(context.Context) error,
) {
	g.Go(func() error {
		logger(ctx).Info("worker started", slog.String("worker", w.Name))

		if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("%s: %w", w.Name, err)
		}

		logger(ctx).Info("worker stopped", slog.String("worker", w.Name))

		return nil
	})
}
