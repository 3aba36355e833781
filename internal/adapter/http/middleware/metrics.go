package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/divvyup/divvy/internal/infrastructure/metrics"
)

// Metrics records request count and duration per method, path and status.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			path := normalizePath(r.URL.Path)
			status := strconv.Itoa(rec.status)
			m.HTTPRequests.WithLabelValues(r.Method, path, status).Inc()
			m.HTTPDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

// normalizePath collapses resource IDs so metric cardinality stays bounded.
// /api/v1/groups/01ABC/balances -> /api/v1/groups/:id/balances
func normalizePath(path string) string {
	for _, prefix := range []string{"/api/v1/groups/", "/api/v1/settlements/"} {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		rest := path[len(prefix):]
		if rest == "" {
			break
		}
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			return prefix + ":id" + rest[i:]
		}
		return prefix + ":id"
	}
	return path
}
