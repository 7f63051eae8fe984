package server_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailcraft/core/logger"
	"github.com/dmitrymomot/mailcraft/core/server"
)

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	_, err := server.NewFromConfig(server.Config{})
	require.ErrorIs(t, err, server.ErrMissingAddress)

	srv, err := server.NewFromConfig(server.Config{Addr: "127.0.0.1:0"})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:0", srv.Addr())
}

func TestRun(t *testing.T) {
	t.Parallel()

	srv := server.New("127.0.0.1:0",
		server.WithLogger(logger.Discard()),
		server.WithShutdownTimeout(time.Second),
	)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, handler)() }()

	require.Eventually(t, func() bool { return srv.Addr() != "127.0.0.1:0" }, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Get("http://" + srv.Addr() + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))

	err = srv.Start(t.Context(), handler)
	require.ErrorIs(t, err, server.ErrServerAlreadyRunning)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
	require.NoError(t, srv.Stop())
}

func TestStartListenError(t *testing.T) {
	t.Parallel()
	srv := server.New("256.0.0.1:http-nope", server.WithLogger(logger.Discard()))
	err := srv.Start(t.Context(), http.NotFoundHandler())
	require.ErrorIs(t, err, server.ErrHTTPServer)
}
