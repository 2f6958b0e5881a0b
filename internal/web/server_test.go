package web

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/tasklist/internal/app"
	"github.com/runoshun/tasklist/internal/domain"
	"github.com/runoshun/tasklist/internal/testutil"
)

func newTestServer(t *testing.T, repo *testutil.MockTaskRepository) *Server {
	t.Helper()
	c := app.NewWithDeps(
		app.Config{},
		nil,
		repo,
		&testutil.MockClock{NowTime: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)},
		testutil.NewMockLogger(),
	)
	s, err := New(c)
	require.NoError(t, err)
	return s
}

// do sends a request through the fiber app and returns the response and body.
func do(t *testing.T, s *Server, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp, string(body)
}

func formRequest(target string, values url.Values, cookies []*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	return req
}

func getRequest(target string, cookies []*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	return req
}

func TestNew_InvalidSecretKey(t *testing.T) {
	cfg := domain.NewDefaultConfig()
	cfg.Server.SecretKey = base64.StdEncoding.EncodeToString([]byte("short"))
	c := app.NewWithDeps(app.Config{}, cfg, testutil.NewMockTaskRepository(), &testutil.MockClock{}, nil)

	_, err := New(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "16, 24 or 32 bytes")
}

func TestNew_GeneratedKeyWarns(t *testing.T) {
	logger := testutil.NewMockLogger()
	c := app.NewWithDeps(app.Config{}, nil, testutil.NewMockTaskRepository(), &testutil.MockClock{}, logger)

	_, err := New(c)
	require.NoError(t, err)

	warnings := logger.Entries("WARN")
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Msg, "secret_key")
}

func TestNew_ConfiguredKey(t *testing.T) {
	cfg := domain.NewDefaultConfig()
	cfg.Server.SecretKey = base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", 32)))
	logger := testutil.NewMockLogger()
	c := app.NewWithDeps(app.Config{}, cfg, testutil.NewMockTaskRepository(), &testutil.MockClock{}, logger)

	_, err := New(c)
	require.NoError(t, err)
	assert.Empty(t, logger.Entries("WARN"))
}

func TestIndex_ListsTasks(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	repo.Add(testutil.NewTestTask(1, "Buy milk", false))
	repo.Add(testutil.NewTestTask(2, "Write <report>", true))
	s := newTestServer(t, repo)

	resp, body := do(t, s, getRequest("/", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, "Buy milk")
	assert.Contains(t, body, "Write &lt;report&gt;")
	assert.Contains(t, body, "Total: 2")
	assert.Contains(t, body, "Completion: 50.0%")
	assert.Contains(t, body, `action="/task/1/complete"`)
	assert.Contains(t, body, `action="/task/2/reopen"`)
}

func TestIndex_Filter(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	repo.Add(testutil.NewTestTask(1, "Pending one", false))
	repo.Add(testutil.NewTestTask(2, "Done one", true))
	s := newTestServer(t, repo)

	_, body := do(t, s, getRequest("/?filter=completed", nil))
	assert.Contains(t, body, "Done one")
	assert.NotContains(t, body, "Pending one")
	// Statistics always cover the whole collection
	assert.Contains(t, body, "Total: 2")

	_, body = do(t, s, getRequest("/?filter=bogus", nil))
	assert.Contains(t, body, "Done one")
	assert.Contains(t, body, "Pending one")
}

func TestIndex_Empty(t *testing.T) {
	s := newTestServer(t, testutil.NewMockTaskRepository())

	_, body := do(t, s, getRequest("/", nil))
	assert.Contains(t, body, "No tasks.")
	assert.Contains(t, body, "Completion: 0.0%")
}

func TestNotFoundPage(t *testing.T) {
	s := newTestServer(t, testutil.NewMockTaskRepository())

	resp, body := do(t, s, getRequest("/nope", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Page not found")

	// Non-integer ids never match a task route
	resp, body = do(t, s, formRequest("/task/abc/complete", nil, nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Page not found")
}

func TestHealth(t *testing.T) {
	repo := testutil.NewMockTaskRepository()
	repo.Add(testutil.NewTestTask(1, "One", false))
	s := newTestServer(t, repo)

	resp, body := do(t, s, getRequest("/health", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok","tasks":1}`, body)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want int
	}{
		{domain.NotFoundf("x"), "not found", http.StatusNotFound},
		{domain.InvalidDataf("x"), "invalid data", http.StatusBadRequest},
		{domain.AlreadyCompletedf("x"), "already completed", http.StatusConflict},
		{domain.PersistenceFailedf(io.ErrShortWrite, "x"), "persistence failed", http.StatusInternalServerError},
		{io.EOF, "unknown", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestServer_StartAndShutdown(t *testing.T) {
	s := newTestServer(t, testutil.NewMockTaskRepository())

	ctx := context.Background()
	require.NoError(t, s.Start(ctx, "127.0.0.1:0"))

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	assert.NoError(t, s.Shutdown(shutdownCtx))
}

func TestServer_StartFailsOnBadAddress(t *testing.T) {
	s := newTestServer(t, testutil.NewMockTaskRepository())

	err := s.Start(context.Background(), "not-an-address")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start HTTP server")
}

func TestServer_LateListenerErrorIsLogged(t *testing.T) {
	logger := testutil.NewMockLogger()
	repo := testutil.NewMockTaskRepository()
	s, err := New(app.NewWithDeps(app.Config{}, nil, repo, repo.Clock, logger))
	require.NoError(t, err)

	errCh := make(chan error, 1)
	done := make(chan struct{})
	go func() {
		s.watchListener(errCh)
		close(done)
	}()
	errCh <- errors.New("accept tcp: use of closed network connection")
	<-done

	entries := logger.Entries("ERROR")
	require.Len(t, entries, 1)
	assert.Equal(t, "http", entries[0].Category)
	assert.Contains(t, entries[0].Msg, "server stopped: accept tcp")
}

func TestServer_CleanListenerExitIsNotLogged(t *testing.T) {
	logger := testutil.NewMockLogger()
	repo := testutil.NewMockTaskRepository()
	s, err := New(app.NewWithDeps(app.Config{}, nil, repo, repo.Clock, logger))
	require.NoError(t, err)

	errCh := make(chan error, 1)
	errCh <- nil
	s.watchListener(errCh)

	assert.Empty(t, logger.Entries("ERROR"))
}
