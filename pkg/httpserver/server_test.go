package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boardly/boardly/pkg/httpserver"
	"github.com/boardly/boardly/pkg/logger"
)

func TestServer_RunAndShutdown(t *testing.T) {
	t.Parallel()
	stopped := make(chan struct{})
	srv := httpserver.New(
		httpserver.WithAddr("127.0.0.1:0"),
		httpserver.WithShutdownTimeout(time.Second),
		httpserver.WithStopHook(func(context.Context) error {
			close(stopped)
			return nil
		}),
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "ok")
		}))
	}()

	select {
	case <-srv.Ready():
	case <-time.After(time.Second):
		require.Fail(t, "server did not start")
	}

	resp, err := http.Get("http://" + srv.Addr())
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, "ok", string(body))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		require.Fail(t, "run did not return")
	}
	<-stopped

	assert.Error(t, srv.Run(context.Background(), nil), "a server runs once")
}

func TestServer_StartError(t *testing.T) {
	t.Parallel()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	srv := httpserver.New(httpserver.WithAddr(l.Addr().String()))
	err = srv.Run(context.Background(), nil)
	assert.ErrorIs(t, err, httpserver.ErrStart)
}

func TestServer_StopHookError(t *testing.T) {
	t.Parallel()
	hookErr := errors.New("close failed")
	srv := httpserver.New(
		httpserver.WithAddr("127.0.0.1:0"),
		httpserver.WithStopHook(func(context.Context) error { return hookErr }),
	)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, nil) }()
	<-srv.Ready()
	cancel()
	assert.ErrorIs(t, <-done, hookErr)
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()
	srv := httpserver.NewFromConfig(httpserver.Config{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, nil) }()
	<-srv.Ready()
	assert.NotEmpty(t, srv.Addr())
	cancel()
	assert.NoError(t, <-done)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	httpserver.Liveness(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"alive"}`, rec.Body.String())

	tests := []struct {
		name   string
		checks []httpserver.Check
		status int
		body   map[string]string
	}{
		{
			name:   "no checks",
			status: http.StatusOK,
			body:   map[string]string{"status": "ready"},
		},
		{
			name: "all healthy",
			checks: []httpserver.Check{
				{Name: "postgres", Func: func(context.Context) error { return nil }},
				{Name: "redis", Func: func(context.Context) error { return nil }},
			},
			status: http.StatusOK,
			body:   map[string]string{"status": "ready", "postgres": "ok", "redis": "ok"},
		},
		{
			name: "one failing",
			checks: []httpserver.Check{
				{Name: "postgres", Func: func(context.Context) error { return nil }},
				{Name: "redis", Func: func(context.Context) error { return errors.New("connection refused") }},
			},
			status: http.StatusServiceUnavailable,
			body:   map[string]string{"status": "not_ready", "postgres": "ok", "redis": "fail"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := httpserver.Readiness(logger.Discard(), time.Second, tt.checks...)
			rec := httptest.NewRecorder()
			h(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.body, body)
		})
	}
}
