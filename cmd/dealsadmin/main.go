package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"dealsadmin/internal/application"
	"dealsadmin/internal/config"
	"dealsadmin/pkg/contextx"
	"dealsadmin/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config.Load", logx.Error(err))
		os.Exit(1) //nolint:gocritic
	}

	log := logx.New(os.Stdout, cfg.Log.Format, cfg.Log.Level).With(
		slog.String(logx.FieldAppName, application.Name),
		slog.String(logx.FieldAppVersion, application.Version),
	)
	slog.SetDefault(log)

	ctx = contextx.WithLogger(ctx, log)

	if err := application.Run(ctx, cfg, log); err != nil {
		log.Error("application.Run", logx.Error(err))
		cancel()
		os.Exit(1) //nolint:gocritic
	}

	log.Info("application stopped")
}
