package middleware

import (
	"customer-api/internal/config"
	"customer-api/internal/infrastructure/monitoring"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsMiddleware(t *testing.T) {
	monitoring.HTTP.RequestsTotal.Reset()
	monitoring.HTTP.RequestDuration.Reset()

	r := chi.NewRouter()
	r.Use(MetricsMiddleware())
	r.Get("/customers/{customerID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, path := range []string{"/customers/1", "/customers/2", "/nowhere"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	expected := `
		# HELP customer_api_http_requests_total Total number of HTTP requests received.
		# TYPE customer_api_http_requests_total counter
		customer_api_http_requests_total{code="200",method="GET",path="/customers/{customerID}"} 2
		customer_api_http_requests_total{code="404",method="GET",path="unmatched"} 1
	`
	err := testutil.CollectAndCompare(monitoring.HTTP.RequestsTotal, strings.NewReader(expected))
	assert.NoError(t, err)
}

func TestMetricsMiddlewareCountsRateLimitedRequests(t *testing.T) {
	monitoring.HTTP.RequestsTotal.Reset()
	monitoring.HTTP.RequestDuration.Reset()

	rl := NewRateLimiterMiddleware(config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	defer rl.Stop()

	r := chi.NewRouter()
	r.Use(MetricsMiddleware())
	r.Use(rl.Middleware)
	r.Get("/customers/{customerID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/customers/1", nil)
		req.RemoteAddr = "192.0.2.10:1234"
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	expected := `
		# HELP customer_api_http_requests_total Total number of HTTP requests received.
		# TYPE customer_api_http_requests_total counter
		customer_api_http_requests_total{code="200",method="GET",path="/customers/{customerID}"} 1
		customer_api_http_requests_total{code="429",method="GET",path="/customers/{customerID}"} 1
	`
	err := testutil.CollectAndCompare(monitoring.HTTP.RequestsTotal, strings.NewReader(expected))
	assert.NoError(t, err)
}
