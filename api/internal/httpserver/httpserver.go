package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kanoon-saral/api/internal/handle"
	"kanoon-saral/api/internal/middleware"
	"kanoon-saral/api/internal/simplify"
	"kanoon-saral/api/internal/web"
)

// largest request body: one image plus multipart framing
const maxBody = simplify.MaxImageBytes + 1<<20

// NewMux wires the API, the metrics endpoint and the web UI behind the
// middleware chain.
func NewMux(h *handle.Handle) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)
	mux.HandleFunc("/api/simplify", h.Simplify)
	mux.HandleFunc("/api/simplify-image", h.SimplifyImage)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", web.Handler())
	return middleware.Chain(mux, maxBody)
}

// Serve runs handler on addr until ctx is done, then drains in-flight
// requests for up to shutdownGrace.
func Serve(ctx context.Context, addr string, handler http.Handler, shutdownGrace time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	slog.Info("server stopped")
	return nil
}
