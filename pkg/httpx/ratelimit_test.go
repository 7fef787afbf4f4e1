package httpx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aizuanjeme/coffeShop/pkg/httpx"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func serveFrom(h http.Handler, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/drinks", nil)
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIPKeyExtractor(t *testing.T) {
	t.Run("extracts from RemoteAddr", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		require.Equal(t, "192.168.1.1", httpx.IPKeyExtractor(req))
	})

	t.Run("prefers X-Forwarded-For", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Forwarded-For", "203.0.113.1, 192.168.1.1")
		require.Equal(t, "203.0.113.1", httpx.IPKeyExtractor(req))
	})

	t.Run("uses X-Real-IP if X-Forwarded-For absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Real-IP", "203.0.113.2")
		require.Equal(t, "203.0.113.2", httpx.IPKeyExtractor(req))
	})

	t.Run("falls back to raw RemoteAddr", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "pipe"
		require.Equal(t, "pipe", httpx.IPKeyExtractor(req))
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("blocks requests over limit", func(t *testing.T) {
		limited := httpx.RateLimitByIP(httpx.RateLimitConfig{
			RequestsPerWindow: 3,
			Window:            time.Minute,
			Burst:             3,
		})(okHandler)

		for i := range 3 {
			rec := serveFrom(limited, "192.168.1.1:12345")
			require.Equal(t, http.StatusOK, rec.Code, "request %d should succeed", i+1)
		}

		rec := serveFrom(limited, "192.168.1.1:12345")
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.NotEmpty(t, rec.Header().Get("Retry-After"))
		require.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
		require.Equal(t, "1m0s", rec.Header().Get("X-RateLimit-Window"))

		var body httpx.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		require.False(t, body.Success)
		require.Equal(t, http.StatusTooManyRequests, body.Error)
	})

	t.Run("different keys are tracked separately", func(t *testing.T) {
		limited := httpx.RateLimitByIP(httpx.RateLimitConfig{
			RequestsPerWindow: 1,
			Window:            time.Minute,
			Burst:             1,
		})(okHandler)

		require.Equal(t, http.StatusOK, serveFrom(limited, "192.168.1.1:1").Code)
		require.Equal(t, http.StatusTooManyRequests, serveFrom(limited, "192.168.1.1:1").Code)
		require.Equal(t, http.StatusOK, serveFrom(limited, "192.168.1.2:1").Code)
	})

	t.Run("allows request when key extractor returns empty", func(t *testing.T) {
		limited := httpx.RateLimitMiddleware(httpx.RateLimitConfig{
			RequestsPerWindow: 1,
			Window:            time.Minute,
			Burst:             1,
		}, func(*http.Request) string { return "" })(okHandler)

		for range 3 {
			require.Equal(t, http.StatusOK, serveFrom(limited, "192.168.1.1:1").Code)
		}
	})
}

func TestRateLimitProfiles(t *testing.T) {
	d := httpx.DefaultRateLimits()
	for name, cfg := range map[string]httpx.RateLimitConfig{
		"public":   d.Public,
		"lenient":  d.Lenient,
		"moderate": d.Moderate,
	} {
		t.Run(name, func(t *testing.T) {
			require.Greater(t, cfg.RequestsPerWindow, 0)
			require.Greater(t, cfg.Window, time.Duration(0))
			require.Greater(t, cfg.Burst, 0)
		})
	}

	require.Less(t, d.Moderate.RequestsPerWindow, d.Lenient.RequestsPerWindow)
	require.Less(t, d.Lenient.RequestsPerWindow, d.Public.RequestsPerWindow)
}

func TestParseRateLimitFromEnv(t *testing.T) {
	t.Setenv("RATELIMIT_MODERATE_REQUESTS", "7")
	t.Setenv("RATELIMIT_MODERATE_WINDOW_SEC", "30")
	t.Setenv("RATELIMIT_MODERATE_BURST", "-1")

	limits := httpx.RateLimitsFromEnv()
	require.Equal(t, 7, limits.Moderate.RequestsPerWindow)
	require.Equal(t, 30*time.Second, limits.Moderate.Window)
	require.Equal(t, httpx.DefaultRateLimits().Moderate.Burst, limits.Moderate.Burst)
	require.Equal(t, httpx.DefaultRateLimits().Public, limits.Public)
}

func BenchmarkRateLimitMiddleware(b *testing.B) {
	limited := httpx.RateLimitByIP(httpx.RateLimitConfig{
		RequestsPerWindow: 1_000_000,
		Window:            time.Minute,
		Burst:             1000,
	})(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/drinks", nil)
	req.RemoteAddr = "192.168.1.1:12345"

	b.ResetTimer()
	for b.Loop() {
		limited.ServeHTTP(httptest.NewRecorder(), req)
	}
}
