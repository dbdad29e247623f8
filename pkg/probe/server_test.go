package probe_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"dealsadmin/pkg/probe"
)

func TestServerHandler(t *testing.T) {
	errNotReady := errors.New("templates not loaded")

	testCases := []struct {
		name       string
		endpoint   string
		ready      probe.ReadinessCheck
		statusCode int
		body       []byte
	}{
		{
			name:       "Health handler",
			endpoint:   "/healthz",
			statusCode: http.StatusOK,
			body:       []byte(`{"name":"dealsadmin","version":"v0.0.1"}`),
		},
		{
			name:       "Ready handler",
			endpoint:   "/ready",
			statusCode: http.StatusOK,
			body:       []byte(`{"name":"dealsadmin","version":"v0.0.1"}`),
		},
		{
			name:       "Not ready",
			endpoint:   "/ready",
			ready:      func(context.Context) error { return errNotReady },
			statusCode: http.StatusServiceUnavailable,
			body:       []byte{},
		},
		{
			name:       "Health ignores readiness",
			endpoint:   "/healthz",
			ready:      func(context.Context) error { return errNotReady },
			statusCode: http.StatusOK,
			body:       []byte(`{"name":"dealsadmin","version":"v0.0.1"}`),
		},
		{
			name:       "Invalid endpoint",
			endpoint:   "/invalid",
			statusCode: http.StatusNotFound,
			body:       []byte("404 page not found\n"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			probeServer := probe.NewServer(
				":0",
				probe.Options{Name: "dealsadmin", Version: "v0.0.1"},
				tc.ready,
			)

			httpServer := httptest.NewServer(probeServer.Handler())
			defer httpServer.Close()

			resp, err := http.Get(httpServer.URL + tc.endpoint) //nolint:noctx
			rq.NoError(err)

			defer resp.Body.Close()

			rq.Equal(tc.statusCode, resp.StatusCode)

			bodyBytes, err := io.ReadAll(resp.Body)
			rq.NoError(err)

			rq.Equal(tc.body, bodyBytes)
		})
	}
}

func TestServerRun(t *testing.T) {
	rq := require.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	probeServer := probe.NewServer(":10001", probe.Options{Name: "dealsadmin"}, nil)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return probeServer.Run(ctx)
	})

	// Wait for server to start.
	time.Sleep(time.Second)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://:10001/healthz", http.NoBody)
	rq.NoError(err)

	resp, err := http.DefaultClient.Do(req)
	rq.NoError(err)
	resp.Body.Close()

	rq.Equal(http.StatusOK, resp.StatusCode)

	cancel()

	rq.NoError(g.Wait())
}
