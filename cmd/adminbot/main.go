package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/emarket/adminbot/bot"
	coreconfig "github.com/emarket/adminbot/core/config"
	coredatabase "github.com/emarket/adminbot/core/database"
	"github.com/emarket/adminbot/core/logger"
	coretelegram "github.com/emarket/adminbot/core/telegram"
	"github.com/emarket/adminbot/orders"

	"log/slog"
)

const defaultConfigPath = "config.yaml"

func main() {
	if err := run(); err != nil {
		log.Fatalf("adminbot: %v", err)
	}
}

func run() error {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = defaultConfigPath
	}

	log.Printf("loading config: %s", cfgPath)
	cfg, err := coreconfig.Load(cfgPath)
	if err != nil {
		return err
	}

	if err := logger.Init(cfg); err != nil {
		return err
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	db, err := coredatabase.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := coredatabase.RunMigrations(cfg.Database); err != nil {
		return err
	}

	app := bot.New(cfg, orders.NewSQLStore(db))
	runOpts := app.RunOptions()

	startedAt := time.Now()
	runOpts.OnStart = func(ctx context.Context, rt coretelegram.Runtime) error {
		logger.L.With("component", "app").Info("app ready",
			slog.String("event", "ready"),
			slog.Duration("startup_duration", logger.RoundMS(time.Since(startedAt))),
		)
		return nil
	}
	runOpts.OnStop = func(ctx context.Context, rt coretelegram.Runtime) error {
		logger.L.With("component", "app").Info("shutting down...",
			slog.String("event", "shutdown"),
		)
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return coretelegram.Run(ctx, runOpts)
}
