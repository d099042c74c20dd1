package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"project-gallery/internal/metrics"
)

type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func newMetricsResponseWriter(w http.ResponseWriter) *metricsResponseWriter {
	return &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *metricsResponseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *metricsResponseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

func (rw *metricsResponseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// MetricsConfig holds configuration for the metrics middleware
type MetricsConfig struct {
	// SkipRoutes are route templates that are not recorded.
	SkipRoutes []string
}

// DefaultMetricsConfig skips the probe endpoints, which are scraped far more
// often than real pages are requested.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		SkipRoutes: []string{"/health", "/healthz", "/livez", "/readyz"},
	}
}

// UnmatchedRoute is the path label used for requests no route matched.
const UnmatchedRoute = "unmatched"

// Metrics returns a middleware that records Prometheus metrics. It must be
// installed with Router.Use so the matched route is known; requests are
// labelled by route template ("/project/{name:.+}") rather than raw path,
// which keeps label cardinality bounded by the number of routes.
func Metrics(config MetricsConfig) mux.MiddlewareFunc {
	skip := make(map[string]bool, len(config.SkipRoutes))
	for _, p := range config.SkipRoutes {
		skip[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := routeLabel(r)
			if skip[route] {
				next.ServeHTTP(w, r)
				return
			}

			metrics.HTTPRequestsInFlight.Inc()
			defer metrics.HTTPRequestsInFlight.Dec()

			wrapped := newMetricsResponseWriter(w)
			start := time.Now()

			next.ServeHTTP(wrapped, r)

			status := strconv.Itoa(wrapped.statusCode)
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

func routeLabel(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return UnmatchedRoute
	}
	if tpl, err := route.GetPathTemplate(); err == nil {
		return tpl
	}
	return UnmatchedRoute
}
