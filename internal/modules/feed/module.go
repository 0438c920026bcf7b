package feed

import (
	"context"

	"go.uber.org/fx"

	"signal_bot/internal/modules/feed/service"
)

// Module — live-лента алертов по websocket (/ws/signals).
func Module() fx.Option {
	return fx.Module("feed",
		fx.Provide(service.NewHub),
		fx.Invoke(func(lc fx.Lifecycle, hub *service.Hub) {
			lc.Append(fx.Hook{
				OnStop: func(_ context.Context) error {
					hub.Close()
					return nil
				},
			})
		}),
	)
}
