package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"kanoon-saral/api/internal/presenter"
	"kanoon-saral/api/internal/simplify"
	"kanoon-saral/api/internal/util"
)

func (r *Router) acceptPhoto(msg *tgbotapi.Message) {
	// Telegram re-encodes photos as JPEG; the last size is the largest.
	ph := msg.Photo[len(msg.Photo)-1]
	if ph.FileSize > simplify.MaxImageBytes {
		r.send(msg.Chat.ID, "⚠️ "+presenter.Notice(simplify.FileTooLarge(ph.FileSize)))
		return
	}
	data, err := r.fetch(ph.FileID)
	if err != nil {
		r.downloadFailed(msg.Chat.ID, err)
		return
	}
	r.submit(msg.Chat.ID, presenter.ImageSubmission(data, util.MimeJPEG, "photo.jpg"))
}

// acceptDocument takes JPEG/PNG files as images and plain-text files as
// pasted text. Anything else is left to validation to reject.
func (r *Router) acceptDocument(msg *tgbotapi.Message) {
	doc := msg.Document
	cid := msg.Chat.ID
	if doc.FileSize > simplify.MaxImageBytes {
		r.send(cid, "⚠️ "+presenter.Notice(simplify.FileTooLarge(doc.FileSize)))
		return
	}
	data, err := r.fetch(doc.FileID)
	if err != nil {
		r.downloadFailed(cid, err)
		return
	}
	if strings.HasPrefix(util.NormalizeMIME(doc.MimeType), "text/plain") {
		r.submit(cid, presenter.TextSubmission(string(data)))
		return
	}
	r.submit(cid, presenter.ImageSubmission(data, doc.MimeType, doc.FileName))
}

func (r *Router) downloadFailed(chatID int64, err error) {
	r.log().Warn("telegram download", "chat_id", chatID, "err", err)
	r.send(chatID, "❌ Could not download the file from Telegram. Please send it again.")
}

func (r *Router) fetch(fileID string) ([]byte, error) {
	url, err := r.Bot.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("telegram: file url: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	dl := r.Download
	if dl == nil {
		dl = download
	}
	return dl(ctx, url)
}

// download reads at most one byte past the upload limit so oversized files
// still fail validation.
func download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("telegram: download status %d: %s", resp.StatusCode, string(b))
	}
	return io.ReadAll(io.LimitReader(resp.Body, simplify.MaxImageBytes+1))
}
