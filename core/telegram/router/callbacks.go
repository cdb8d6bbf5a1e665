package router

import (
	"time"

	tg "github.com/emarket/adminbot/core/telegram"
	"github.com/emarket/adminbot/core/telegram/callbacks"
	"github.com/emarket/adminbot/core/telegram/middleware"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// CallbackOptions customises callback routing behaviour.
type CallbackOptions struct {
	AdminChatID int64
	NotFound    tele.HandlerFunc
}

// CallbackRoute returns the single OnCallback route. Every callback is
// acknowledged immediately so the client stops its spinner; only after the
// ack is the originating chat checked against the operator chat.
func CallbackRoute(reg *tg.Registry, opts CallbackOptions) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		if c.Callback() == nil {
			return nil
		}

		_ = c.Respond()

		if !middleware.Authorized(c, opts.AdminChatID) {
			return nil
		}

		action, payload, ok := callbacks.FromContext(c)
		name := "callback." + normalizeHandlerName(action)
		extras := []slog.Attr{
			slog.String("action", action),
			slog.String("payload", payload),
		}

		if !ok {
			logHandlerSummary(c, name, start, "skip", "malformed", nil, extras...)
			return nil
		}

		cbHandler, found := reg.GetCallback(action)
		if !found || cbHandler == nil {
			fallback := reg.CallbackNotFound()
			if fallback == nil {
				fallback = opts.NotFound
			}
			extras = append(extras, slog.String("reason", "not_found"))
			return handleWithSummary(c, name, start, "", "", func() error {
				if fallback != nil {
					return fallback(c)
				}
				return nil
			}, extras...)
		}

		return handleWithSummary(c, name, start, "", "", func() error {
			return cbHandler(c)
		}, extras...)
	}
	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}
