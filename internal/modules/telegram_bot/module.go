package telegram

import (
	"context"

	"go.uber.org/fx"

	"signal_bot/internal/modules/telegram_bot/service"
)

func Module() fx.Option {
	return fx.Module("telegram",
		// Сервис Telegram как *service.Telegram, он же runner.TelegramNotifier для /start
		fx.Provide(
			service.NewTelegram,
		),
		// Запуск основного цикла через Lifecycle
		fx.Invoke(
			func(lc fx.Lifecycle, t *service.Telegram) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						go t.Start(context.Background())
						return nil
					},
					OnStop: func(ctx context.Context) error {
						t.Stop()
						return nil
					},
				})
			},
		),
	)
}
