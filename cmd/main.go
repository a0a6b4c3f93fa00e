package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"uiHarness/internal/cli"
	"uiHarness/internal/config"
	"uiHarness/internal/database"
	"uiHarness/internal/logger"
	"uiHarness/internal/migrations"
	"uiHarness/internal/sanitizer"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Logger.Env, cfg.Logger.Level)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *database.DB
	if cfg.Database.Enabled() {
		redact := sanitizer.New(cfg.Database.Password)
		if err := migrations.Run(cfg, log); err != nil {
			log.Warn("migrations failed, run history disabled", zap.String("error", redact.SanitizeError(err)))
		} else if db, err = database.New(cfg, log); err != nil {
			log.Warn("database unavailable, run history disabled", zap.String("error", redact.SanitizeError(err)))
		} else {
			defer db.Close(log)
		}
	}

	return cli.New(cfg, log, db).Execute(ctx, os.Args[1:])
}
