package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"kanoon-saral/api/internal/presenter"
)

func (r *Router) handleCallback(cb tgbotapi.CallbackQuery) {
	if cb.Message == nil || cb.Message.Chat == nil {
		return
	}
	cid := cb.Message.Chat.ID
	if _, err := r.Bot.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		r.log().Warn("telegram callback ack", "chat_id", cid, "err", err)
	}

	switch cb.Data {
	case cbDownload:
		r.onDownload(cid)
	case cbNewDocument:
		r.clearKeyboard(cid, cb.Message.MessageID)
		r.onNewDocument(cid)
	}
}

func (r *Router) onDownload(chatID int64) {
	res, ok := r.session(chatID).View().(presenter.Results)
	if !ok {
		r.send(chatID, "Nothing to download yet. Send a document first.")
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  presenter.ExportFilename,
		Bytes: []byte(presenter.ExportText(res.Result)),
	})
	if _, err := r.Bot.Send(doc); err != nil {
		r.log().Warn("telegram send document", "chat_id", chatID, "err", err)
	}
}

func (r *Router) clearKeyboard(chatID int64, msgID int) {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, msgID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
	if _, err := r.Bot.Request(edit); err != nil {
		r.log().Debug("telegram clear keyboard", "chat_id", chatID, "err", err)
	}
}
