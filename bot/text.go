package bot

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// handleFreeText consumes pending reply intents. It runs as the text
// fallback, after command routing, so anything arriving here is plain text.
// Replies to other messages are left alone without touching the intent.
func (a *App) handleFreeText(c tele.Context) error {
	if m := c.Message(); m != nil && m.ReplyTo != nil {
		return nil
	}
	chat := c.Chat()
	if chat == nil {
		return nil
	}
	text := strings.TrimSpace(c.Text())
	if text == "" || strings.HasPrefix(text, "/") {
		return nil
	}
	num, ok := a.intents.Take(chat.ID)
	if !ok {
		return nil
	}
	return a.sendReply(c, num, text)
}
