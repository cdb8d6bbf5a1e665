package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/emarket/adminbot/core/logger"
	"github.com/emarket/adminbot/core/telegram/keyboard"
	"github.com/emarket/adminbot/orders"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

type messageSender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Notifier pushes order events to the operator chat. It is exported for the
// order-taking side of the system, which calls it when a customer submits an
// order or writes a message. All methods are safe on a nil or unconfigured
// notifier and report delivery errors without requiring the caller to act.
type Notifier struct {
	send   messageSender
	chatID int64
	limit  int
}

// NewNotifier targets the operator chat. A nil bot or zero chat id disables
// delivery.
func NewNotifier(bot *tele.Bot, chatID int64, messageLimit int) *Notifier {
	n := &Notifier{chatID: chatID, limit: messageLimit}
	if bot != nil {
		n.send = bot
	}
	return n
}

// NewOrder announces a freshly created order with its action buttons.
func (n *Notifier) NewOrder(o *orders.Order) error {
	if o == nil {
		return nil
	}
	return n.deliver("order.created", o.Number, newOrderText(o, n.textCap()), newOrderKeyboard(o.Number))
}

// NewCustomerMessage announces an inbound customer message on an order.
func (n *Notifier) NewCustomerMessage(o *orders.Order, text string) error {
	if o == nil {
		return nil
	}
	return n.deliver("message.received", o.Number, customerMessageText(o.Number, text, n.textCap()), customerMessageKeyboard(o.Number))
}

func (n *Notifier) textCap() int {
	if n != nil && n.limit > 0 {
		return n.limit
	}
	return 0
}

func (n *Notifier) deliver(event, number, text string, markup *tele.ReplyMarkup) error {
	if n == nil || n.send == nil || n.chatID == 0 {
		return nil
	}
	_, err := n.send.Send(tele.ChatID(n.chatID), text, markup)
	if err != nil {
		logger.LogEvent(context.Background(), logger.NOTIFY, slog.LevelWarn, event,
			slog.String("order_number", number),
			slog.String("outcome", "fail"),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return err
	}
	logger.LogEvent(context.Background(), logger.NOTIFY, slog.LevelDebug, event,
		slog.String("order_number", number),
		slog.String("outcome", "ok"),
	)
	return nil
}

func newOrderText(o *orders.Order, limit int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🆕 New order %s\n", o.Number)
	fmt.Fprintf(&b, "Product: %s\n", o.ProductName)
	fmt.Fprintf(&b, "Quantity: %d\n", o.Quantity)
	fmt.Fprintf(&b, "Payment: %s", o.PaymentInfo)
	if o.TransactionID.Valid && o.TransactionID.String != "" {
		fmt.Fprintf(&b, "\nTxID: %s", o.TransactionID.String)
	}
	if len(o.Messages) > 0 {
		fmt.Fprintf(&b, "\nMessage: %s", o.Messages[0].Body)
	}
	return Truncate(b.String(), limit)
}

func newOrderKeyboard(number string) *tele.ReplyMarkup {
	return keyboard.Inline(
		[]keyboard.InlineBtn{
			{Text: "✅ Approve", Action: ActionConfirm, Payload: number},
			{Text: "❌ Reject", Action: ActionCancelOrder, Payload: number},
		},
		[]keyboard.InlineBtn{
			{Text: "👁 View", Action: ActionView, Payload: number},
			{Text: "✍️ Reply", Action: ActionReplyInit, Payload: number},
			{Text: "🗄 Archive", Action: ActionArchive, Payload: number},
		},
	)
}

func customerMessageText(number, text string, limit int) string {
	return Truncate(fmt.Sprintf("💬 New message for %s:\n%s", number, text), limit)
}

func customerMessageKeyboard(number string) *tele.ReplyMarkup {
	return keyboard.Inline([]keyboard.InlineBtn{
		{Text: "👁 View", Action: ActionView, Payload: number},
		{Text: "✍️ Reply", Action: ActionReplyInit, Payload: number},
	})
}
