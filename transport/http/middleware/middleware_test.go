package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/rsalab/log"
	"github.com/kochabx/rsalab/metrics"
	"github.com/kochabx/rsalab/transport/http/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func do(r *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := do(r, http.MethodGet, "/", nil)
	id := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, w.Body.String())

	given := uuid.NewString()
	w = do(r, http.MethodGet, "/", http.Header{RequestIDHeader: {given}})
	assert.Equal(t, given, w.Header().Get(RequestIDHeader))

	w = do(r, http.MethodGet, "/", http.Header{RequestIDHeader: {"not-a-uuid"}})
	assert.NotEqual(t, "not-a-uuid", w.Header().Get(RequestIDHeader))
}

func TestCors(t *testing.T) {
	r := gin.New()
	r.Use(Cors("http://localhost:3000"))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, http.MethodGet, "/", http.Header{"Origin": {"http://localhost:3000"}})
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = do(r, http.MethodGet, "/", http.Header{"Origin": {"http://evil.example"}})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodOptions, "/", http.Header{"Origin": {"http://localhost:3000"}})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestCorsWildcard(t *testing.T) {
	r := gin.New()
	r.Use(Cors("*"))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, http.MethodGet, "/", http.Header{"Origin": {"http://anything.example"}})
	assert.Equal(t, "http://anything.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestGinLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultLoggerConfig()
	cfg.Logger = log.NewWriter(&buf)

	r := gin.New()
	r.Use(RequestID(), GinLoggerWithConfig(cfg))
	r.GET("/api/v1/primes/current", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })

	do(r, http.MethodGet, "/metrics", nil)
	assert.Zero(t, buf.Len(), "skipped path is not logged")

	w := do(r, http.MethodGet, "/api/v1/primes/current", nil)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, float64(http.StatusOK), line["status"])
	assert.Equal(t, "GET", line["method"])
	assert.Equal(t, w.Header().Get(RequestIDHeader), line["request_id"])
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/", func(c *gin.Context) { panic("boom") })

	w := do(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Equal(t, "internal server error", resp.Message)
}

func TestMetrics(t *testing.T) {
	m := metrics.New()
	r := gin.New()
	r.Use(Metrics(m, "/metrics"))
	r.GET("/api/v1/keys/current", func(c *gin.Context) { c.Status(http.StatusOK) })

	do(r, http.MethodGet, "/api/v1/keys/current", nil)
	do(r, http.MethodGet, "/api/v1/keys/current", nil)
	do(r, http.MethodGet, "/nowhere", nil)
	do(r, http.MethodGet, "/metrics", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/api/v1/keys/current", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.HTTPRequests))
}

type stubLimiter struct {
	allow bool
	err   error
	keys  []string
}

func (s *stubLimiter) AllowN(_ context.Context, key string, _ time.Time, _ int) (bool, error) {
	s.keys = append(s.keys, key)
	return s.allow, s.err
}

func TestRateLimit(t *testing.T) {
	newEngine := func(l *stubLimiter) *gin.Engine {
		r := gin.New()
		r.POST("/generate", RateLimit(l), func(c *gin.Context) { response.GinJSON(c, "ok") })
		return r
	}

	allowed := &stubLimiter{allow: true}
	w := do(newEngine(allowed), http.MethodPost, "/generate", nil)
	assert.Equal(t, http.StatusOK, decode(t, w).Code)
	assert.Equal(t, []string{"192.0.2.1"}, allowed.keys)

	denied := &stubLimiter{}
	resp := decode(t, do(newEngine(denied), http.MethodPost, "/generate", nil))
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)

	broken := &stubLimiter{err: errors.New("connection refused")}
	resp = decode(t, do(newEngine(broken), http.MethodPost, "/generate", nil))
	assert.Equal(t, http.StatusOK, resp.Code, "limiter failures let the request through")
}
