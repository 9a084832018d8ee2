package handle

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"kanoon-saral/api/internal/metrics"
	"kanoon-saral/api/internal/middleware"
	"kanoon-saral/api/internal/presenter"
	"kanoon-saral/api/internal/simplify"
)

type Handle struct {
	svc presenter.Mediator
	log *slog.Logger
}

func New(svc presenter.Mediator, log *slog.Logger) *Handle {
	if log == nil {
		log = slog.Default()
	}
	return &Handle{svc: svc, log: log}
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type simplifyResponse struct {
	Simplified     string `json:"simplified"`
	OriginalText   string `json:"originalText"`
	ProcessingTime int64  `json:"processingTime"`
	SimplifiedHTML string `json:"simplifiedHtml,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a mediator error to its status code. Anything that is not a
// *simplify.Error is answered with fallback so causes never reach the client.
func (h *Handle) writeError(w http.ResponseWriter, r *http.Request, err error, fallback *simplify.Error) {
	var se *simplify.Error
	if !errors.As(err, &se) {
		se = fallback
	}
	metrics.Failures.WithLabelValues(string(se.Kind)).Inc()

	code := http.StatusInternalServerError
	if se.ClientCorrectable() {
		code = http.StatusBadRequest
	}
	attrs := []any{
		"request_id", middleware.RequestIDFromContext(r.Context()),
		"path", r.URL.Path,
		"kind", se.Kind,
		"code", se.Code,
		"err", err,
	}
	if code >= 500 {
		h.log.Error("simplify failed", attrs...)
	} else {
		h.log.Warn("simplify rejected", attrs...)
	}
	writeJSON(w, code, errorBody{Error: se.Code, Message: se.Message})
}

func (h *Handle) writeResult(w http.ResponseWriter, r *http.Request, kind string, res simplify.Result) {
	metrics.SimplifyDuration.WithLabelValues(kind).Observe(res.ProcessingTime.Seconds())
	metrics.InputChars.Observe(float64(len([]rune(res.OriginalText))))

	html, err := presenter.RenderHTML(res.Simplified)
	if err != nil {
		h.log.Warn("render html", "request_id", middleware.RequestIDFromContext(r.Context()), "err", err)
	}
	writeJSON(w, http.StatusOK, simplifyResponse{
		Simplified:     res.Simplified,
		OriginalText:   res.OriginalText,
		ProcessingTime: res.ProcessingTimeMs(),
		SimplifiedHTML: html,
	})
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	writeJSON(w, http.StatusMethodNotAllowed, errorBody{
		Error:   "Method not allowed",
		Message: "Use " + allow + " for this endpoint",
	})
}

// withDeadline bounds a provider round trip only when the client asks for it
// with X-Request-Timeout (seconds) or ?timeoutSec=. Otherwise the request
// context is used as is and the provider's own defaults apply.
func withDeadline(r *http.Request) (context.Context, context.CancelFunc) {
	ts := r.Header.Get("X-Request-Timeout")
	if ts == "" {
		ts = r.URL.Query().Get("timeoutSec")
	}
	if v, _ := strconv.Atoi(ts); v > 0 {
		return context.WithTimeout(r.Context(), time.Duration(v)*time.Second)
	}
	return r.Context(), func() {}
}
