package middleware

import (
	"bytes"
	"customer-api/internal/config"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiterMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	cfg := config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 2}

	rl := NewRateLimiterMiddleware(cfg, nil, logger)
	defer rl.Stop()
	handler := rl.Middleware(okHandler())

	t.Run("allows requests up to the burst then blocks", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/customers", nil)
		req.RemoteAddr = "127.0.0.1:12345"

		for i := 0; i < cfg.Burst; i++ {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		}

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "1", rec.Header().Get("Retry-After"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "Rate limit exceeded", body["error"])
	})

	t.Run("limits clients independently", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/customers", nil)
		req.RemoteAddr = "10.1.1.1:5555"

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("forwarding headers do not change the client key", func(t *testing.T) {
		for i, xff := range []string{"203.0.113.1", "203.0.113.2", "203.0.113.3"} {
			req := httptest.NewRequest(http.MethodGet, "/customers", nil)
			req.RemoteAddr = "198.51.100.7:4000"
			req.Header.Set("X-Forwarded-For", xff)
			req.Header.Set("X-Real-IP", xff)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if i < cfg.Burst {
				assert.Equal(t, http.StatusOK, rec.Code)
			} else {
				assert.Equal(t, http.StatusTooManyRequests, rec.Code)
			}
		}
	})

	t.Run("extractIP strips the port", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "127.0.0.1:12345"
		assert.Equal(t, "127.0.0.1", rl.extractIP(req))

		req.RemoteAddr = "10.0.0.1"
		assert.Equal(t, "10.0.0.1", rl.extractIP(req))
	})
}

func TestRateLimiterMiddlewareDisabled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	rl := NewRateLimiterMiddleware(config.RateLimitConfig{Enabled: false, RPS: 1, Burst: 1}, nil, logger)
	defer rl.Stop()
	handler := rl.Middleware(okHandler())

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimiterMiddlewareRedisFailsOpen(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	rl := NewRateLimiterMiddleware(config.RateLimitConfig{Enabled: true, RPS: 1, Burst: 1}, client, logger)
	defer rl.Stop()
	handler := rl.Middleware(okHandler())

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/customers", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestWindowLimit(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	rl := NewRateLimiterMiddleware(config.RateLimitConfig{Enabled: false, RPS: 0.2}, nil, logger)
	assert.Equal(t, int64(1), rl.windowLimit())

	rl = NewRateLimiterMiddleware(config.RateLimitConfig{Enabled: false, RPS: 10}, nil, logger)
	assert.Equal(t, int64(10), rl.windowLimit())
}
