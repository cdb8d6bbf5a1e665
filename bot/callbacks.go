package bot

import (
	tg "github.com/emarket/adminbot/core/telegram"
	"github.com/emarket/adminbot/core/telegram/callbacks"
	tghelpers "github.com/emarket/adminbot/core/telegram/helpers"
	"github.com/emarket/adminbot/orders"

	tele "gopkg.in/telebot.v4"
)

// Inline button actions. The payload is always an order number.
const (
	ActionConfirm     = "confirm"
	ActionCancelOrder = "cancel_order"
	ActionArchive     = "archive"
	ActionView        = "view"
	ActionReplyInit   = "reply_init"
)

func (a *App) registerCallbacks(reg *tg.Registry) {
	reg.SetCallbackNotFound(func(c tele.Context) error {
		return tghelpers.SendText(c, "Unknown action.")
	})
	_ = reg.RegisterCallback(ActionConfirm, a.withOrderNumber(a.approve))
	_ = reg.RegisterCallback(ActionCancelOrder, a.withOrderNumber(a.reject))
	_ = reg.RegisterCallback(ActionArchive, a.withOrderNumber(a.archive))
	_ = reg.RegisterCallback(ActionView, a.withOrderNumber(a.view))
	_ = reg.RegisterCallback(ActionReplyInit, a.withOrderNumber(a.beginReply))
}

// withOrderNumber adapts an order-scoped handler to a callback whose payload
// carries the order number. Button payloads are generated by this program,
// so a malformed one is treated like an unknown action.
func (a *App) withOrderNumber(fn func(tele.Context, string) error) tele.HandlerFunc {
	return func(c tele.Context) error {
		_, payload, ok := callbacks.FromContext(c)
		if !ok {
			return tghelpers.SendText(c, "Unknown action.")
		}
		num, err := orders.ParseNumber(payload)
		if err != nil {
			return tghelpers.SendText(c, "Unknown action.")
		}
		return fn(c, num)
	}
}
