package router

import (
	"time"

	"github.com/emarket/adminbot/core/logger"
	tg "github.com/emarket/adminbot/core/telegram"
	"github.com/emarket/adminbot/core/telegram/middleware"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// CommandRouteOptions configures how command handlers are wrapped.
type CommandRouteOptions struct {
	AdminChatID   int64
	OnAdminReject tele.HandlerFunc
}

// CommandRoutes prepares one route per registered command, each wrapped
// with the recover and logger middleware. Admin-only commands are gated
// on the operator chat before their handler runs.
func CommandRoutes(reg *tg.Registry, opts CommandRouteOptions) []tg.Route {
	if reg == nil {
		return nil
	}

	adminOpts := middleware.AdminOptions{
		AdminChatID: opts.AdminChatID,
		OnReject:    opts.OnAdminReject,
	}

	cmds := reg.Commands()
	routes := make([]tg.Route, 0, len(cmds))
	for name, def := range cmds {
		h := def.Handler
		if h == nil {
			continue
		}
		h = withSummaryHandler(normalizeHandlerName(name), h)
		if def.AdminOnly {
			h = middleware.AdminOnlyMiddleware(adminOpts)(h)
		}
		h = middleware.LoggerMiddleware(h)
		h = middleware.RecoverMiddleware(h)
		routes = append(routes, tg.Route{
			Endpoint: name,
			Handler:  h,
		})
	}

	logger.TWire.Info("tg.wire",
		slog.String("event", "complete"),
		slog.Int("commands", len(cmds)),
		slog.Int("callbacks", len(reg.ListCallbacks())),
	)

	return routes
}

func withSummaryHandler(name string, h tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		return handleWithSummary(c, "command."+name, time.Now(), "", "", func() error {
			return h(c)
		})
	}
}
