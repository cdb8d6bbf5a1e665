package keyboard

import (
	tele "gopkg.in/telebot.v4"

	"github.com/emarket/adminbot/core/telegram/callbacks"
)

// InlineBtn describes an inline button with an action routed via the registry.
type InlineBtn struct {
	Text    string
	Action  string
	Payload string
}

// Inline builds an inline keyboard from rows of buttons. Callback data uses
// the raw action:payload encoding so the callback router can dispatch on it.
func Inline(rows ...[]InlineBtn) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	inline := make([][]tele.InlineButton, len(rows))
	for i, row := range rows {
		r := make([]tele.InlineButton, len(row))
		for j, btn := range row {
			r[j] = tele.InlineButton{
				Text: btn.Text,
				Data: callbacks.Encode(btn.Action, btn.Payload),
			}
		}
		inline[i] = r
	}
	markup.InlineKeyboard = inline
	return markup
}
