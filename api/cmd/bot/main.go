package main

import (
	"context"
	"errors"
	"flag"
	"hash/fnv"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"strconv"
	"strings"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"kanoon-saral/api/internal/app"
	"kanoon-saral/api/internal/config"
	"kanoon-saral/api/internal/httpserver"
	"kanoon-saral/api/internal/telegram"
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

	if err := cfg.ValidateBot(); err != nil {
		log.Error("config", "err", err)
		os.Exit(1)
	}
	log.Info("starting kanoon saral bot", cfg.Summary()...)

	svc, err := app.NewService(cfg, log)
	if err != nil {
		log.Error("startup", "err", err)
		os.Exit(1)
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		log.Error("telegram", "err", err)
		os.Exit(1)
	}
	bot.Debug = false

	r := &telegram.Router{Bot: bot, Svc: svc, Log: log}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	if webhookURL := strings.TrimSpace(cfg.WebhookURL); webhookURL != "" {
		err = runWebhook(ctx, cfg.Addr(), mux, bot, r, webhookURL)
	} else {
		err = runPolling(ctx, cfg.Addr(), mux, bot, r)
	}
	r.Wait()
	if err != nil {
		log.Error("bot", "err", err)
		os.Exit(1)
	}
}

func runWebhook(ctx context.Context, addr string, mux *http.ServeMux, bot *tgbotapi.BotAPI, r *telegram.Router, baseURL string) error {
	path := "/webhook/" + shortHash(bot.Token)
	wh, err := tgbotapi.NewWebhook(strings.TrimRight(baseURL, "/") + path)
	if err != nil {
		return err
	}
	wh.DropPendingUpdates = true
	if _, err := bot.Request(wh); err != nil {
		return err
	}

	mux.HandleFunc(path, func(w http.ResponseWriter, req *http.Request) {
		upd, err := bot.HandleUpdate(req)
		if err != nil {
			slog.Warn("webhook update", "err", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		r.HandleUpdate(*upd)
	})

	slog.Info("webhook mode", "addr", addr)
	return httpserver.Serve(ctx, addr, mux, 10*time.Second)
}

func runPolling(ctx context.Context, addr string, mux *http.ServeMux, bot *tgbotapi.BotAPI, r *telegram.Router) error {
	if _, err := bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		slog.Warn("delete webhook", "err", err)
	}
	go func() {
		if err := httpserver.Serve(ctx, addr, mux, 5*time.Second); err != nil {
			slog.Error("health server", "err", err)
		}
	}()
	slog.Info("polling mode")
	poll(ctx, bot, r.HandleUpdate)
	return nil
}

var reRetryAfter = regexp.MustCompile(`(?i)retry after\s+(\d+)`)

func retryDelayFromError(err error) time.Duration {
	if err == nil {
		return 0
	}
	s := strings.ToLower(err.Error())
	if strings.Contains(s, "too many requests") {
		if m := reRetryAfter.FindStringSubmatch(s); len(m) == 2 {
			if n, _ := strconv.Atoi(m[1]); n > 0 {
				return time.Duration(n) * time.Second
			}
		}
		return 3 * time.Second
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return 2 * time.Second
	}
	return time.Second
}

func poll(ctx context.Context, bot *tgbotapi.BotAPI, handle func(tgbotapi.Update)) {
	offset := 0
	const (
		baseDelay = time.Second
		maxDelay  = 15 * time.Second
	)

	for ctx.Err() == nil {
		u := tgbotapi.NewUpdate(offset)
		u.Timeout = 30

		updates, err := bot.GetUpdates(u)
		if err != nil {
			d := min(max(retryDelayFromError(err), baseDelay), maxDelay)
			slog.Warn("polling error", "err", err, "retry_in", d)
			select {
			case <-time.After(d):
			case <-ctx.Done():
			}
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			handle(upd)
		}
	}
	slog.Info("polling stopped")
}

// shortHash keeps the bot token out of the webhook path.
func shortHash(s string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return strconv.FormatUint(h.Sum64(), 16)
}
