package bot

import (
	"context"

	coreconfig "github.com/emarket/adminbot/core/config"
	tg "github.com/emarket/adminbot/core/telegram"
	"github.com/emarket/adminbot/core/telegram/commands"
	tghelpers "github.com/emarket/adminbot/core/telegram/helpers"
	"github.com/emarket/adminbot/core/telegram/router"

	tele "gopkg.in/telebot.v4"
)

// App wires the order store and reply intents into bot handlers.
type App struct {
	cfg     *coreconfig.Config
	store   OrderStore
	intents *Intents
}

// New builds the application over a configured order store.
func New(cfg *coreconfig.Config, store OrderStore) *App {
	return &App{
		cfg:     cfg,
		store:   store,
		intents: NewIntents(),
	}
}

func (a *App) ctx(c tele.Context) context.Context {
	return tghelpers.BuildContext(c)
}

func (a *App) messageLimit() int {
	if a.cfg != nil && a.cfg.Telegram.MessageLimit > 0 {
		return a.cfg.Telegram.MessageLimit
	}
	return coreconfig.DefaultMessageLimit
}

func (a *App) adminChatID() int64 {
	if a.cfg == nil {
		return 0
	}
	return a.cfg.Telegram.AdminChatID
}

// BuildRegistry registers every command, callback action and the text
// fallback on a fresh registry.
func (a *App) BuildRegistry() *tg.Registry {
	reg := tg.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Handler: a.handleHelp, Description: "Show available commands", AdminOnly: true, Hidden: true,
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler: a.handleHelp, Description: "Show available commands", AdminOnly: true,
	})
	reg.RegisterCommand("/admin_login", commands.Command{
		Handler: a.handleAdminLogin, Description: "Admin panel link", AdminOnly: true, Hidden: true,
	})
	reg.RegisterCommand("/view", commands.Command{
		Handler: a.handleView, Description: "Show order details", AdminOnly: true,
	})
	reg.RegisterCommand("/approve", commands.Command{
		Handler: a.handleApprove, Description: "Mark an order completed", AdminOnly: true,
	})
	reg.RegisterCommand("/reject", commands.Command{
		Handler: a.handleReject, Description: "Mark an order cancelled", AdminOnly: true,
	})
	reg.RegisterCommand("/archive", commands.Command{
		Handler: a.handleArchive, Description: "Archive an order", AdminOnly: true,
	})
	reg.RegisterCommand("/unarchive", commands.Command{
		Handler: a.handleUnarchive, Description: "Restore an order from the archive", AdminOnly: true,
	})
	reg.RegisterCommand("/del_archived", commands.Command{
		Handler: a.handleDelArchived, Description: "Delete an archived order", AdminOnly: true,
	})
	reg.RegisterCommand("/reply", commands.Command{
		Handler: a.handleReply, Description: "Reply to a customer", AdminOnly: true,
		Aliases: []string{"/send"},
	})
	reg.RegisterCommand("/cancel_reply", commands.Command{
		Handler: a.handleCancelReply, Description: "Abort reply mode", AdminOnly: true,
	})
	reg.RegisterCommand("/pending", commands.Command{
		Handler: a.handlePending, Description: "List pending orders", AdminOnly: true,
	})
	reg.RegisterCommand("/unread", commands.Command{
		Handler: a.handleUnread, Description: "List orders with unread messages", AdminOnly: true,
	})
	reg.RegisterCommand("/recent", commands.Command{
		Handler: a.handleRecent, Description: "List the most recent orders", AdminOnly: true,
	})
	reg.RegisterCommand("/search", commands.Command{
		Handler: a.handleSearch, Description: "Search orders", AdminOnly: true,
	})

	a.registerCallbacks(reg)
	reg.SetTextFallback(a.handleFreeText)

	return reg
}

// RunOptions assembles the full runtime wiring for telegram.Run.
func (a *App) RunOptions() tg.RunOptions {
	reg := a.BuildRegistry()
	admin := a.adminChatID()

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{AdminChatID: admin})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{AdminChatID: admin}))
	routes = append(routes, router.TextRoutes(reg, router.TextOptions{AdminChatID: admin})...)

	return tg.RunOptions{
		Config:      a.cfg,
		Registry:    reg,
		Middlewares: tg.DefaultMiddlewares(a.cfg, nil),
		Routes:      routes,
	}
}
