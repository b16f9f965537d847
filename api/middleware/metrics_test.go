package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/grocerly-app/storefront-backend/pkg/metrics"
)

func TestMetricsRecordsRoutePatternAndStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(reg)

	router := chi.NewRouter()
	router.Use(Metrics(httpMetrics))
	router.Get("/api/v1/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/123", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusNotFound, resp.Code)

	expected := strings.NewReader(`
# HELP http_requests_total HTTP requests by method, route and status code.
# TYPE http_requests_total counter
http_requests_total{method="GET",route="/api/v1/products/{id}",status="404"} 1
`)
	require.NoError(t, testutil.GatherAndCompare(reg, expected, "http_requests_total"))
}

func TestMetricsDefaultsImplicitOK(t *testing.T) {
	reg := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(reg)

	router := chi.NewRouter()
	router.Use(Metrics(httpMetrics))
	router.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	expected := strings.NewReader(`
# HELP http_requests_total HTTP requests by method, route and status code.
# TYPE http_requests_total counter
http_requests_total{method="GET",route="/health/live",status="200"} 1
`)
	require.NoError(t, testutil.GatherAndCompare(reg, expected, "http_requests_total"))
}

func TestMetricsNilPassthrough(t *testing.T) {
	handler := Metrics(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/anything", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	require.Equal(t, http.StatusTeapot, resp.Code)
}
