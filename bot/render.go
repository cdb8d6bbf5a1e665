package bot

import (
	"fmt"
	"strings"

	"github.com/emarket/adminbot/orders"
)

// DateLayout formats message and order timestamps in operator-facing text.
var DateLayout = "02.01.2006 15:04"

const (
	historySeparator = "--------------------"
	emptyHistory     = "No messages yet."
	emptyList        = "No matching orders."
	unreadMarker     = "[NEW MESSAGE]"
	truncationMarker = "… (truncated)"
)

func statusGlyph(o orders.Order) string {
	if o.IsArchived {
		return "🗄️"
	}
	switch o.Status {
	case orders.StatusCompleted:
		return "✅"
	case orders.StatusCancelled:
		return "❌"
	default:
		return "⏳"
	}
}

func senderLabel(s orders.Sender) string {
	if s == orders.SenderAdmin {
		return "Admin"
	}
	return "Customer"
}

// Truncate cuts text to at most limit runes, replacing the tail with an
// explicit marker so cut output is never mistaken for complete output.
func Truncate(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	marker := []rune(truncationMarker)
	keep := limit - len(marker)
	if keep < 0 {
		keep = 0
		marker = marker[:limit]
	}
	return string(runes[:keep]) + string(marker)
}

// escapeHTML neutralizes angle brackets so customer text cannot inject
// HTML entities into parse-mode messages.
func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "<", "&lt;")
	return strings.ReplaceAll(s, ">", "&gt;")
}

// RenderList produces one line per order under a titled header, newest
// first as delivered by the store, truncated to the transport cap.
func RenderList(title string, list []orders.Order, limit int) string {
	if len(list) == 0 {
		return emptyList
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 %s (%d)\n", title, len(list))
	for _, o := range list {
		b.WriteString(statusGlyph(o))
		b.WriteByte(' ')
		b.WriteString(o.Number)
		if o.HasUnread {
			b.WriteByte(' ')
			b.WriteString(unreadMarker)
		}
		b.WriteString(" - ")
		b.WriteString(o.ProductName)
		b.WriteByte('\n')
	}
	return Truncate(strings.TrimRight(b.String(), "\n"), limit)
}

// RenderHistory formats a message thread in insertion order. With html set,
// message bodies are escaped for HTML parse mode.
func RenderHistory(msgs []orders.Message, html bool) string {
	if len(msgs) == 0 {
		return emptyHistory
	}

	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		body := m.Body
		if html {
			body = escapeHTML(body)
		}
		parts = append(parts, fmt.Sprintf("%s (%s):\n%s",
			senderLabel(m.Sender), m.SentAt.Format(DateLayout), body))
	}
	return strings.Join(parts, "\n"+historySeparator+"\n")
}

// RenderDetail builds the full HTML detail view of one order.
func RenderDetail(o *orders.Order, limit int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🧾 <b>%s</b>\n", escapeHTML(o.Number))
	fmt.Fprintf(&b, "Product: %s\n", escapeHTML(o.ProductName))
	fmt.Fprintf(&b, "Quantity: %d\n", o.Quantity)
	fmt.Fprintf(&b, "Payment: %s\n", escapeHTML(o.PaymentInfo))
	if o.TransactionID.Valid && o.TransactionID.String != "" {
		fmt.Fprintf(&b, "TxID: %s\n", escapeHTML(o.TransactionID.String))
	}
	fmt.Fprintf(&b, "Status: %s %s\n", statusGlyph(*o), o.Status)
	archived := "no"
	if o.IsArchived {
		archived = "yes"
	}
	fmt.Fprintf(&b, "Archived: %s\n", archived)
	fmt.Fprintf(&b, "Created: %s\n", o.CreatedAt.Format(DateLayout))
	b.WriteString("\n💬 Messages:\n")
	b.WriteString(RenderHistory(o.Messages, true))
	return Truncate(b.String(), limit)
}
