package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter(t *testing.T) {
	r := gin.New()
	r.Use(RateLimiter(rate.Limit(1), 2))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	fromA := map[string]string{"X-Forwarded-For": "10.0.0.1"}
	fromB := map[string]string{"X-Forwarded-For": "10.0.0.2"}

	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/ping", fromA).Code)
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/ping", fromA).Code)
	w := perform(r, http.MethodGet, "/ping", fromA)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"Too many requests"}`, w.Body.String())

	// Buckets are per client.
	assert.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/ping", fromB).Code)
}

func TestRateLimiter_Disabled(t *testing.T) {
	r := gin.New()
	r.Use(RateLimiter(0, 0))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for i := 0; i < 20; i++ {
		require.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/ping", nil).Code)
	}
}

func TestIPRateLimiter_ReusesLimiter(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(5), 1)
	assert.Same(t, l.GetLimiter("10.0.0.1"), l.GetLimiter("10.0.0.1"))
	assert.NotSame(t, l.GetLimiter("10.0.0.1"), l.GetLimiter("10.0.0.2"))
}

func TestCache(t *testing.T) {
	hits := 0
	r := gin.New()
	r.Use(Cache(cache.New(time.Minute, time.Minute), time.Minute))
	r.GET("/options", func(c *gin.Context) {
		hits++
		c.JSON(http.StatusOK, gin.H{"n": hits})
	})
	r.GET("/broken", func(c *gin.Context) {
		hits++
		c.JSON(http.StatusInternalServerError, gin.H{"error": "boom"})
	})

	first := perform(r, http.MethodGet, "/options", nil)
	second := perform(r, http.MethodGet, "/options", nil)
	assert.Equal(t, "MISS", first.Header().Get(CacheHeader))
	assert.Equal(t, "HIT", second.Header().Get(CacheHeader))
	assert.JSONEq(t, `{"n":1}`, second.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", second.Header().Get("Content-Type"))
	assert.Equal(t, 1, hits)

	perform(r, http.MethodGet, "/broken", nil)
	perform(r, http.MethodGet, "/broken", nil)
	assert.Equal(t, 3, hits, "error responses are not cached")
}

func TestCache_KeepsPerRequestHeaders(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Cache(cache.New(time.Minute, time.Minute), time.Minute))
	r.GET("/options", func(c *gin.Context) {
		c.Header("X-Handler-Only", "first-run")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	testCases := []struct {
		requestID string
		wantCache string
	}{
		{requestID: "first", wantCache: "MISS"},
		{requestID: "second", wantCache: "HIT"},
	}
	for _, tc := range testCases {
		t.Run(tc.requestID, func(t *testing.T) {
			w := perform(r, http.MethodGet, "/options", map[string]string{RequestIDHeader: tc.requestID})
			assert.Equal(t, tc.wantCache, w.Header().Get(CacheHeader))
			assert.Equal(t, tc.requestID, w.Header().Get(RequestIDHeader))
			assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
			assert.JSONEq(t, `{"ok":true}`, w.Body.String())
			if tc.wantCache == "HIT" {
				assert.Empty(t, w.Header().Get("X-Handler-Only"))
			}
		})
	}
}

func TestRequestIDAndAccessLog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	r := gin.New()
	r.Use(RequestID(), AccessLog(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := perform(r, http.MethodGet, "/ok", nil)
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)

	w = perform(r, http.MethodGet, "/missing", map[string]string{RequestIDHeader: "abc-123"})
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, generated, entries[0].ContextMap()["request_id"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "abc-123", entries[1].ContextMap()["request_id"])
	assert.Equal(t, int64(http.StatusNotFound), entries[1].ContextMap()["status"])
	assert.Equal(t, "/missing", entries[1].ContextMap()["path"])
}
