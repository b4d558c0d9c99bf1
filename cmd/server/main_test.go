package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "github.com/bienestar-institucional/backend/internal/common/errors"
)

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func setServerEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "DB_CONNECT_ATTEMPTS", "STATIC_DIR", "REQUEST_TIMEOUT", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "BCRYPT_COST", "LOG_DIR"} {
		t.Setenv(key, "")
	}
	t.Setenv("LOG_LEVEL", "ERROR")
	t.Setenv("DATABASE_URL", "sqlite://"+filepath.Join(t.TempDir(), "bienestar.db"))
}

func TestRun_ServesUntilCancelled(t *testing.T) {
	setServerEnv(t)
	port := freePort(t)
	t.Setenv("PORT", strconv.Itoa(port))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx) }()

	url := fmt.Sprintf("http://127.0.0.1:%d/health", port)
	var resp *http.Response
	require.Eventually(t, func() bool {
		r, err := http.Get(url)
		if err != nil {
			return false
		}
		resp = r
		return true
	}, 5*time.Second, 50*time.Millisecond)

	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRun_InvalidPort(t *testing.T) {
	setServerEnv(t)
	t.Setenv("PORT", "http")

	err := run(context.Background())
	assert.ErrorIs(t, err, commonerrors.ErrInvalidEnv)
}

func TestRun_PortInUse(t *testing.T) {
	setServerEnv(t)
	ln, err := net.Listen("tcp", "0.0.0.0:0")
	require.NoError(t, err)
	defer ln.Close()
	t.Setenv("PORT", strconv.Itoa(ln.Addr().(*net.TCPAddr).Port))

	err = run(context.Background())
	assert.ErrorContains(t, err, "failed to listen")
}
