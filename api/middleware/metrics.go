package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/grocerly-app/storefront-backend/pkg/metrics"
)

// Metrics records request counts, latency and in-flight gauge per chi route
// pattern so path parameters do not explode the label cardinality.
func Metrics(httpMetrics *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if httpMetrics == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			httpMetrics.IncInFlight()
			defer httpMetrics.DecInFlight()

			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r)

			if rec.status == 0 {
				rec.status = http.StatusOK
			}

			route := r.URL.Path
			if ctx := chi.RouteContext(r.Context()); ctx != nil {
				if pattern := ctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			httpMetrics.ObserveRequest(r.Method, route, rec.status, time.Since(start))
		})
	}
}
