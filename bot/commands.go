package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/emarket/adminbot/core/logger"
	tghelpers "github.com/emarket/adminbot/core/telegram/helpers"
	"github.com/emarket/adminbot/orders"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

const helpText = `📖 Commands:
/view EM-XXXX - order details
/approve EM-XXXX - mark completed
/reject EM-XXXX - mark cancelled
/archive EM-XXXX - move to archive
/unarchive EM-XXXX - restore from archive
/del_archived EM-XXXX - delete an archived order
/reply EM-XXXX text - send a reply to the customer
/cancel_reply - abort reply mode
/pending - pending orders
/unread - orders with unread messages
/recent [n] - most recent orders
/search term - search by number, product or txid`

const defaultRecentLimit = 10

// commandPayload returns everything after the command token.
func commandPayload(c tele.Context) string {
	if m := c.Message(); m != nil && m.Payload != "" {
		return strings.TrimSpace(m.Payload)
	}
	parts := strings.SplitN(strings.TrimSpace(c.Text()), " ", 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func (a *App) handleHelp(c tele.Context) error {
	return tghelpers.SendText(c, helpText)
}

func (a *App) handleAdminLogin(c tele.Context) error {
	url := a.cfg.AdminLoginURL()
	if url == "" {
		return tghelpers.SendText(c, "Admin site is not configured.")
	}
	return tghelpers.SendText(c, "🔐 Admin panel: "+url)
}

func (a *App) handleView(c tele.Context) error {
	num, err := orders.ParseNumber(commandPayload(c))
	if err != nil {
		return tghelpers.SendText(c, "Usage: /view EM-XXXX")
	}
	return a.view(c, num)
}

func (a *App) handleApprove(c tele.Context) error {
	num, err := orders.ParseNumber(commandPayload(c))
	if err != nil {
		return tghelpers.SendText(c, "Usage: /approve EM-XXXX")
	}
	return a.approve(c, num)
}

func (a *App) handleReject(c tele.Context) error {
	num, err := orders.ParseNumber(commandPayload(c))
	if err != nil {
		return tghelpers.SendText(c, "Usage: /reject EM-XXXX")
	}
	return a.reject(c, num)
}

func (a *App) handleArchive(c tele.Context) error {
	num, err := orders.ParseNumber(commandPayload(c))
	if err != nil {
		return tghelpers.SendText(c, "Usage: /archive EM-XXXX")
	}
	return a.archive(c, num)
}

func (a *App) handleUnarchive(c tele.Context) error {
	num, err := orders.ParseNumber(commandPayload(c))
	if err != nil {
		return tghelpers.SendText(c, "Usage: /unarchive EM-XXXX")
	}
	o, err := a.store.SetArchived(a.ctx(c), num, false)
	if err != nil {
		return a.reportStoreErr(c, "unarchive", num, err)
	}
	return tghelpers.SendText(c, fmt.Sprintf("📤 Order %s unarchived.", o.Number))
}

func (a *App) handleDelArchived(c tele.Context) error {
	num, err := orders.ParseNumber(commandPayload(c))
	if err != nil {
		return tghelpers.SendText(c, "Usage: /del_archived EM-XXXX")
	}
	if err := a.store.DeleteArchived(a.ctx(c), num); err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			return tghelpers.SendText(c, fmt.Sprintf("No archived order %s.", num))
		}
		return a.reportStoreErr(c, "del_archived", num, err)
	}
	return tghelpers.SendText(c, fmt.Sprintf("🗑 Order %s deleted.", num))
}

func (a *App) handleReply(c tele.Context) error {
	parts := strings.SplitN(commandPayload(c), " ", 2)
	if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
		return tghelpers.SendText(c, "Usage: /reply EM-XXXX your message")
	}
	num, err := orders.ParseNumber(parts[0])
	if err != nil {
		return tghelpers.SendText(c, "Usage: /reply EM-XXXX your message")
	}
	return a.sendReply(c, num, strings.TrimSpace(parts[1]))
}

func (a *App) handleCancelReply(c tele.Context) error {
	chat := c.Chat()
	if chat == nil {
		return nil
	}
	if num, ok := a.intents.Cancel(chat.ID); ok {
		return tghelpers.SendText(c, fmt.Sprintf("Reply to %s cancelled.", num))
	}
	return tghelpers.SendText(c, "No reply in progress.")
}

func (a *App) handlePending(c tele.Context) error {
	list, err := a.store.List(a.ctx(c), orders.Filter{
		Status:   orders.StatusPtr(orders.StatusPending),
		Archived: orders.BoolPtr(false),
	})
	if err != nil {
		return a.reportStoreErr(c, "pending", "", err)
	}
	return tghelpers.SendText(c, RenderList("Pending orders", list, a.messageLimit()))
}

func (a *App) handleUnread(c tele.Context) error {
	list, err := a.store.List(a.ctx(c), orders.Filter{
		Unread:   orders.BoolPtr(true),
		Archived: orders.BoolPtr(false),
	})
	if err != nil {
		return a.reportStoreErr(c, "unread", "", err)
	}
	return tghelpers.SendText(c, RenderList("Unread messages", list, a.messageLimit()))
}

func (a *App) handleRecent(c tele.Context) error {
	limit := defaultRecentLimit
	if raw := commandPayload(c); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return tghelpers.SendText(c, "Usage: /recent 5")
		}
		limit = n
	}
	list, err := a.store.List(a.ctx(c), orders.Filter{Limit: limit})
	if err != nil {
		return a.reportStoreErr(c, "recent", "", err)
	}
	return tghelpers.SendText(c, RenderList("Recent orders", list, a.messageLimit()))
}

func (a *App) handleSearch(c tele.Context) error {
	term := commandPayload(c)
	if term == "" {
		return tghelpers.SendText(c, "Usage: /search term")
	}
	list, err := a.store.List(a.ctx(c), orders.Filter{Search: term})
	if err != nil {
		return a.reportStoreErr(c, "search", "", err)
	}
	return tghelpers.SendText(c, RenderList("Search: "+term, list, a.messageLimit()))
}

// view, approve, reject, archive and beginReply are shared between the
// slash commands and the inline-button callbacks.

func (a *App) view(c tele.Context, number string) error {
	o, err := a.store.FindByNumber(a.ctx(c), number)
	if err != nil {
		return a.reportStoreErr(c, "view", number, err)
	}
	return tghelpers.SendHTML(c, RenderDetail(o, a.messageLimit()))
}

func (a *App) approve(c tele.Context, number string) error {
	o, err := a.store.SetStatus(a.ctx(c), number, orders.StatusCompleted)
	if err != nil {
		return a.reportStoreErr(c, "approve", number, err)
	}
	return tghelpers.SendText(c, fmt.Sprintf("✅ Order %s status: %s.", o.Number, o.Status))
}

func (a *App) reject(c tele.Context, number string) error {
	o, err := a.store.SetStatus(a.ctx(c), number, orders.StatusCancelled)
	if err != nil {
		return a.reportStoreErr(c, "reject", number, err)
	}
	return tghelpers.SendText(c, fmt.Sprintf("❌ Order %s status: %s.", o.Number, o.Status))
}

func (a *App) archive(c tele.Context, number string) error {
	o, err := a.store.SetArchived(a.ctx(c), number, true)
	if err != nil {
		return a.reportStoreErr(c, "archive", number, err)
	}
	return tghelpers.SendText(c, fmt.Sprintf("🗄 Order %s archived.", o.Number))
}

func (a *App) beginReply(c tele.Context, number string) error {
	chat := c.Chat()
	if chat == nil {
		return nil
	}
	a.intents.Begin(chat.ID, number)
	return tghelpers.SendText(c, fmt.Sprintf(
		"✍️ Reply mode for %s. Send your message as plain text, or /cancel_reply to abort.", number))
}

func (a *App) sendReply(c tele.Context, number, body string) error {
	o, err := a.store.AppendAdminReply(a.ctx(c), number, body)
	if err != nil {
		return a.reportStoreErr(c, "reply", number, err)
	}
	return tghelpers.SendText(c, fmt.Sprintf("✉️ Reply sent to %s.", o.Number))
}

// reportStoreErr answers the operator once per failed operation: a distinct
// line for a missing order, a generic one for store failures. Store failures
// are logged with the operation and order number; not-found is not an error.
func (a *App) reportStoreErr(c tele.Context, operation, number string, err error) error {
	if errors.Is(err, orders.ErrNotFound) {
		if number == "" {
			return tghelpers.SendText(c, "Order not found.")
		}
		return tghelpers.SendText(c, fmt.Sprintf("Order %s not found.", number))
	}
	logger.LogEvent(a.ctx(c), logger.SVCOrders, slog.LevelError, "store.fail",
		slog.String("operation", operation),
		slog.String("order_number", number),
		slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
	)
	return tghelpers.SendText(c, "Something went wrong. Please try again.")
}
