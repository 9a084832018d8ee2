package middleware

import "net/http"

// Chain wraps the handler with the full middleware stack.
// Order: CORS → RequestID → Logging → Metrics → MaxBytes → mux
func Chain(handler http.Handler, maxBody int64) http.Handler {
	h := handler
	h = MaxBytes(maxBody)(h)
	h = Metrics(h)
	h = Logging(h)
	h = RequestID(h)
	h = CORS(h)
	return h
}
