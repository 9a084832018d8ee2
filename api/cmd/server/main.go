package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kanoon-saral/api/internal/app"
	"kanoon-saral/api/internal/config"
	"kanoon-saral/api/internal/handle"
	"kanoon-saral/api/internal/httpserver"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	useMock := flag.Bool("mock", false, "use the mock provider instead of a real LLM")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	if *useMock {
		cfg.LLMProvider = "mock"
	}

	log := cfg.Logger(os.Stderr)
	slog.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("config", "err", err)
		os.Exit(1)
	}
	log.Info("starting kanoon saral api", cfg.Summary()...)

	svc, err := app.NewService(cfg, log)
	if err != nil {
		log.Error("startup", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler := httpserver.NewMux(handle.New(svc, log))
	if err := httpserver.Serve(ctx, cfg.Addr(), handler, 10*time.Second); err != nil {
		log.Error("server", "err", err)
		os.Exit(1)
	}
}
