package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rpupo63/personal-blog-backend/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	cfg := config.Default()
	cfg.Port = 9999
	cfg.ReadTimeoutSeconds = 5

	server, err := NewServer(cfg, newTestServer(t).db)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9999", server.Addr)
	assert.Equal(t, 5*time.Second, server.ReadTimeout)
}

func TestServer_StartAndShutdown(t *testing.T) {
	cfg := config.Default()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0

	server, err := NewServer(cfg, newTestServer(t).db)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- server.Start() }()
	server.ShutdownGracefully(time.Second)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)

	rec := s.mustDo(t, http.MethodGet, "/nope", "", http.StatusNotFound)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "route not found: /nope", errorMessage(t, rec))

	s.mustDo(t, http.MethodGet, "/posts/by-id/1/extra", "", http.StatusNotFound)
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	rec := s.mustDo(t, http.MethodDelete, "/posts", "", http.StatusMethodNotAllowed)
	assert.Contains(t, errorMessage(t, rec), "method not allowed")

	s.mustDo(t, http.MethodPatch, "/tags", "", http.StatusMethodNotAllowed)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/posts", nil)
	req.Header.Set("Origin", "https://blog.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type, X-Custom")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Contains(t, []int{http.StatusOK, http.StatusNoContent}, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
}

func TestCORSSimpleRequest(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t)

	rec := s.mustDo(t, http.MethodGet, "/health", "", http.StatusOK)
	generated := rec.Header().Get(requestIDHeader)
	assert.Len(t, generated, 36)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	health := decode[healthResponse](t, s.mustDo(t, http.MethodGet, "/health", "", http.StatusOK))
	assert.Equal(t, "ok", health.Status)
	assert.GreaterOrEqual(t, health.UptimeSeconds, int64(0))
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t)
	s.createPost(t, "counted")
	s.mustDo(t, http.MethodGet, "/posts/by-id/1", "", http.StatusOK)
	s.mustDo(t, http.MethodGet, "/nope", "", http.StatusNotFound)

	body := s.mustDo(t, http.MethodGet, "/metrics", "", http.StatusOK).Body.String()
	assert.Contains(t, body, `blog_http_requests_total{method="POST",route="/posts`)
	assert.Contains(t, body, `blog_http_requests_total{method="GET",route="/posts/by-id/{id}",status="200"} 1`)
	assert.Contains(t, body, `route="unmatched",status="404"`)
	assert.Contains(t, body, "blog_http_request_duration_seconds_bucket")
}

func TestRecoverPanics(t *testing.T) {
	handler := requestID(recoverPanics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"internal server error"}`, rec.Body.String())
}

func TestResponder_HidesInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	NewResponder(zerolog.Nop()).WriteError(rec, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"internal server error"}`, rec.Body.String())
}
