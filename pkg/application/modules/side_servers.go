package modules

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"dealsadmin/pkg/metrics"
	"dealsadmin/pkg/probe"
)

// ProbeServer exposes /healthz and /ready for the orchestrator.
type ProbeServer struct {
	Name          string
	Version       string
	ListenAddress string
	Ready         probe.ReadinessCheck
}

func (p ProbeServer) Run(ctx context.Context, g *errgroup.Group) {
	server := probe.NewServer(
		p.ListenAddress,
		probe.Options{Name: p.Name, Version: p.Version},
		p.Ready,
	)

	runServer(ctx, g, "probeServer", server.Run)
}

// MetricServer exposes Gatherer on /metrics.
type MetricServer struct {
	ListenAddress string
	Gatherer      prometheus.Gatherer
}

func (m MetricServer) Run(ctx context.Context, g *errgroup.Group) {
	server := metrics.NewPrometheusServer(m.ListenAddress, m.Gatherer)

	runServer(ctx, g, "prometheusServer", server.Run)
}

func runServer(ctx context.Context, g *errgroup.Group, name string, run func(context.Context) error) {
	g.Go(func() error {
		if err := run(ctx); err != nil {
			return fmt.Errorf("%s.Run: %w", name, err)
		}

		return nil
	})
}
