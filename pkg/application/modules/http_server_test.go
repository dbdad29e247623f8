package modules_test

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"dealsadmin/pkg/application/modules"
)

func freeAddress(t *testing.T) string {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	require.NoError(t, l.Close())

	return addr
}

func TestHTTPServer(t *testing.T) {
	rq := require.New(t)

	addr := freeAddress(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)

	modules.HTTPServer{
		ListenAddress: addr,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}),
		ShutdownTimeout: time.Second,
	}.Run(ctx, g)

	rq.Eventually(func() bool {
		resp, err := http.Get("http://" + addr + "/") //nolint:noctx
		if err != nil {
			return false
		}

		resp.Body.Close()

		return resp.StatusCode == http.StatusTeapot
	}, 2*time.Second, 10*time.Millisecond)

	cancel()

	rq.NoError(g.Wait())
}

func TestSideServersStopWithContext(t *testing.T) {
	rq := require.New(t)

	ctx, cancel := context.WithCancel(context.Background())

	g, ctx := errgroup.WithContext(ctx)

	modules.ProbeServer{Name: "dealsadmin", Version: "test", ListenAddress: freeAddress(t)}.Run(ctx, g)
	modules.MetricServer{ListenAddress: freeAddress(t)}.Run(ctx, g)

	time.Sleep(50 * time.Millisecond)
	cancel()

	rq.NoError(g.Wait())
}
