package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/fx"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/feed"
	"signal_bot/internal/modules/health"
	"signal_bot/internal/modules/market"
	"signal_bot/internal/modules/postgres"
	telegram "signal_bot/internal/modules/telegram_bot"
	"signal_bot/internal/modules/watchlist"
	"signal_bot/internal/runner"
	"signal_bot/pkg/logger"
	"signal_bot/pkg/tracing"
)

func main() {
	// конфиг нужен до fx: от него зависят логгер и трейсер
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := logger.Init(cfg.Log.Level); err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	logger.SetServiceName(cfg.Service.Name)
	tracing.SetServiceName(cfg.Service.Name)

	_, closeTracer, err := tracing.InitTracer(tracing.Config{
		Enabled: cfg.Tracing.Enabled,
		Host:    cfg.Tracing.Host,
		Port:    cfg.Tracing.Port,
	})
	if err != nil {
		logger.Fatal("tracer: %v", err)
	}
	defer closeTracer()

	app := fx.New(
		config.Module(cfg),
		fx.NopLogger,
		postgres.Module(),
		market.Module(),
		watchlist.Module(),
		feed.Module(),
		runner.Module(),
		health.Module(),
		telegram.Module(),
	)

	if err := app.Start(context.Background()); err != nil {
		logger.Fatal("start: %v", err)
	}
	logger.Info("[MAIN] signal bot started")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("[MAIN] shutting down")
	if err := app.Stop(context.Background()); err != nil {
		logger.Error("stop: %v", err)
	}
}
