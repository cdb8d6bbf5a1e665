package router

import (
	"strings"
	"time"

	tg "github.com/emarket/adminbot/core/telegram"
	"github.com/emarket/adminbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// TextOptions controls fallback behaviour for free-text updates.
type TextOptions struct {
	AdminChatID int64
}

// TextRoutes builds the OnText route. Text from anyone but the operator is
// dropped without a reply. Text matching a registered command (by its first
// token) runs that command; other slash-prefixed text is ignored so that
// typos never end up recorded as reply bodies. Everything else goes to the
// registry's text fallback.
func TextRoutes(reg *tg.Registry, opts TextOptions) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()

		if !middleware.Authorized(c, opts.AdminChatID) {
			return nil
		}

		text := strings.TrimSpace(c.Text())

		// Only slash-prefixed text can be a command. Everything else goes
		// straight to the fallback, even when its first word spells a
		// command name.
		if strings.HasPrefix(text, "/") {
			if reg != nil {
				if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
					name := "command." + normalizeHandlerName(key)
					h := cmd.Handler
					return handleWithSummary(c, name, start, "", "", func() error {
						return h(c)
					})
				}
			}
			logHandlerSummary(c, "text.unknown_command", start, "skip", "ok", nil)
			return nil
		}

		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "text.fallback", start, "", "", func() error {
					return fb(c)
				})
			}
		}

		logHandlerSummary(c, "text.unhandled", start, "skip", "ok", nil)
		return nil
	}

	return []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
		},
	}
}
