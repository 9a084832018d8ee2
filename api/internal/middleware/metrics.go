package middleware

import (
	"net/http"
	"strconv"

	"kanoon-saral/api/internal/metrics"
)

// Metrics records request count by method, path, and status code. Paths
// outside the API collapse into one label to keep cardinality bounded.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		metrics.RequestsTotal.WithLabelValues(r.Method, pathLabel(r.URL.Path), strconv.Itoa(sw.status)).Inc()
	})
}

func pathLabel(p string) string {
	switch p {
	case "/api/health", "/api/simplify", "/api/simplify-image", "/metrics":
		return p
	}
	return "other"
}
