package telegram

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// Telegram caps a message at 4096 UTF-16 units; stay below it in runes.
const maxMessageRunes = 4000

const (
	cbDownload    = "download"
	cbNewDocument = "new_document"
)

func resultsKeyboard() tgbotapi.InlineKeyboardMarkup {
	dl := tgbotapi.NewInlineKeyboardButtonData("⬇️ Download", cbDownload)
	nd := tgbotapi.NewInlineKeyboardButtonData("📄 New document", cbNewDocument)
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(dl, nd))
}
