package server

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bienestar-institucional/backend/internal/common/logger"
)

func TestDefaultServerConfig(t *testing.T) {
	cfg := DefaultServerConfig("0.0.0.0:5001")
	assert.Equal(t, "0.0.0.0:5001", cfg.Addr)
	assert.Equal(t, 10*time.Second, cfg.ReadHeaderTimeout)

	srv := NewServer(cfg, http.NotFoundHandler())
	assert.Equal(t, "0.0.0.0:5001", srv.Addr)
	assert.Equal(t, cfg.IdleTimeout, srv.IdleTimeout)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "test", "INFO")

	srv := NewServer(DefaultServerConfig(ln.Addr().String()), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "pong")
	}))

	hookCalled := make(chan struct{}, 1)
	hooks := []ShutdownHook{
		func(context.Context) error {
			hookCalled <- struct{}{}
			return fmt.Errorf("close failed")
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, ln, srv, log, "test", hooks) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "pong", string(body))

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	<-hookCalled
	assert.Contains(t, buf.String(), "shutdown hook 0 failed: close failed")
	assert.Contains(t, buf.String(), "stopped gracefully")
}

func TestRun_BindFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	log := logger.NewWithWriter(io.Discard, "test", "INFO")
	srv := NewServer(DefaultServerConfig(ln.Addr().String()), http.NotFoundHandler())

	err = Run(context.Background(), srv, log, "test", nil)
	assert.ErrorContains(t, err, "failed to listen")
}

func startGraceful(t *testing.T, ctx context.Context) (<-chan error, <-chan struct{}) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	log := logger.NewWithWriter(io.Discard, "test", "INFO")
	srv := NewServer(DefaultServerConfig(addr), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "pong")
	}))

	hookCalled := make(chan struct{}, 1)
	hooks := []ShutdownHook{func(context.Context) error {
		hookCalled <- struct{}{}
		return nil
	}}

	done := make(chan error, 1)
	go func() { done <- StartWithGracefulShutdownAndHooks(ctx, srv, log, "test", hooks) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	return done, hookCalled
}

func TestStartWithGracefulShutdownAndHooks_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done, hookCalled := startGraceful(t, ctx)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	<-hookCalled
}

func TestStartWithGracefulShutdownAndHooks_StopsOnSIGTERM(t *testing.T) {
	done, hookCalled := startGraceful(t, context.Background())

	// The server answered, so the signal handler is already installed.
	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGTERM))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	<-hookCalled
}
