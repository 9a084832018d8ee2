package telegram

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"kanoon-saral/api/internal/presenter"
	"kanoon-saral/api/internal/simplify"
)

// Bot is the part of *tgbotapi.BotAPI the router uses.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

type Router struct {
	Bot Bot
	Svc presenter.Mediator
	Log *slog.Logger

	// Download fetches a Telegram file URL; nil means plain HTTP GET.
	Download func(ctx context.Context, url string) ([]byte, error)
	// Timeout bounds one simplification; zero leaves it to the provider.
	Timeout time.Duration

	sessions sync.Map // chatID -> *presenter.Machine
	inflight sync.WaitGroup
}

func (r *Router) HandleCommand(msg *tgbotapi.Message) {
	cid := msg.Chat.ID
	switch msg.Command() {
	case "start":
		r.send(cid, startText)
	case "new":
		r.onNewDocument(cid)
	case "health":
		r.send(cid, "✅ OK")
	default:
		r.send(cid, "Unknown command. Try /start, /new or /health.")
	}
}

func (r *Router) HandleUpdate(upd tgbotapi.Update) {
	if upd.CallbackQuery != nil {
		r.handleCallback(*upd.CallbackQuery)
		return
	}
	msg := upd.Message
	if msg == nil || msg.Chat == nil {
		return
	}

	switch {
	case msg.IsCommand():
		r.HandleCommand(msg)
	case len(msg.Photo) > 0:
		r.acceptPhoto(msg)
	case msg.Document != nil:
		r.acceptDocument(msg)
	case msg.Text != "":
		r.submit(msg.Chat.ID, presenter.TextSubmission(msg.Text))
	}
}

// Wait blocks until every submission started so far has finished.
func (r *Router) Wait() { r.inflight.Wait() }

func (r *Router) session(chatID int64) *presenter.Machine {
	v, _ := r.sessions.LoadOrStore(chatID, presenter.NewMachine())
	return v.(*presenter.Machine)
}

func (r *Router) log() *slog.Logger {
	if r.Log != nil {
		return r.Log
	}
	return slog.Default()
}

// submit starts processing sub for the chat. A document sent while results
// are shown replaces them.
func (r *Router) submit(chatID int64, sub presenter.Submission) {
	m := r.session(chatID)
	if err := m.Restart(sub); err != nil {
		if errors.Is(err, presenter.ErrBusy) {
			r.send(chatID, busyText)
			return
		}
		r.send(chatID, "⚠️ "+presenter.Notice(err))
		return
	}

	r.send(chatID, processingText)
	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()
		r.process(chatID, m, sub.Kind())
	}()
}

func (r *Router) processContext() (context.Context, context.CancelFunc) {
	if r.Timeout > 0 {
		return context.WithTimeout(context.Background(), r.Timeout)
	}
	return context.WithCancel(context.Background())
}

func (r *Router) process(chatID int64, m *presenter.Machine, kind string) {
	ctx, cancel := r.processContext()
	defer cancel()

	res, err := m.Process(ctx, r.Svc)
	if err != nil {
		attrs := []any{"chat_id", chatID, "kind", kind, "err", err}
		if simplify.IsProvider(err) {
			r.log().Error("telegram simplify failed", attrs...)
		} else {
			r.log().Warn("telegram simplify rejected", attrs...)
		}
		r.send(chatID, "❌ "+presenter.Notice(err))
		return
	}
	r.log().Info("telegram simplified", "chat_id", chatID, "kind", kind, "ms", res.ProcessingTimeMs())
	r.sendResult(chatID, res)
}

func (r *Router) sendResult(chatID int64, res simplify.Result) {
	body := presenter.PlainText(res.Simplified)
	if body == "" {
		body = res.Simplified
	}
	parts := chunk(body+"\n\n"+presenter.Summary(res), maxMessageRunes)
	for i, p := range parts {
		msg := tgbotapi.NewMessage(chatID, p)
		if i == len(parts)-1 {
			msg.ReplyMarkup = resultsKeyboard()
		}
		r.sendMsg(msg)
	}
}

func (r *Router) onNewDocument(chatID int64) {
	m := r.session(chatID)
	if err := m.NewDocument(); err != nil && isProcessing(m) {
		r.send(chatID, busyText)
		return
	}
	r.send(chatID, newDocumentText)
}

func isProcessing(m *presenter.Machine) bool {
	_, ok := m.View().(presenter.Processing)
	return ok
}

func (r *Router) send(chatID int64, text string) {
	r.sendMsg(tgbotapi.NewMessage(chatID, text))
}

func (r *Router) sendMsg(msg tgbotapi.MessageConfig) {
	if _, err := r.Bot.Send(msg); err != nil {
		r.log().Warn("telegram send", "chat_id", msg.ChatID, "err", err)
	}
}

const (
	startText = "नमस्ते! I am Kanoon Saral.\n\n" +
		"Send me the text of a legal document, or a photo / JPG / PNG of it (max 10MB), " +
		"and I will explain it in simple language.\n\n" +
		"Commands: /new starts over, /health checks the service."
	processingText  = "⏳ Processing your document... / आपका दस्तावेज़ प्रोसेस हो रहा है"
	busyText        = "⏳ Still working on your previous document. Please wait."
	newDocumentText = "📄 Send the next document as text or an image."
)

// chunk splits s into pieces of at most limit runes, preferring line breaks.
func chunk(s string, limit int) []string {
	var out []string
	for {
		rs := []rune(s)
		if len(rs) <= limit {
			if strings.TrimSpace(s) != "" || len(out) == 0 {
				out = append(out, s)
			}
			return out
		}
		cut := limit
		if i := strings.LastIndex(string(rs[:limit]), "\n"); i > 0 {
			cut = len([]rune(string(rs[:limit])[:i]))
		}
		out = append(out, strings.TrimRight(string(rs[:cut]), "\n"))
		s = strings.TrimLeft(string(rs[cut:]), "\n")
	}
}
