package runner

import (
	"context"
	"time"

	"go.uber.org/fx"

	"signal_bot/internal/modules/config"
	feed "signal_bot/internal/modules/feed/service"
	health "signal_bot/internal/modules/health/service"
	market "signal_bot/internal/modules/market/service"
	watchlist "signal_bot/internal/modules/watchlist/service"
)

func newManager(cfg *config.Config, src *market.Client, wl *watchlist.Store, hub *feed.Hub) *Manager {
	return NewManager(Config{Interval: cfg.Scheduler.Interval}, src, wl, hub)
}

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			newManager, // *Manager
		),
		fx.Invoke(func(
			lc fx.Lifecycle,
			m *Manager,
			wl *watchlist.Store,
			state *health.State,
		) {
			wl.OnRemove(m.DropAsset)
			m.OnPass(func(t time.Time) {
				state.TouchTick(t)
				state.SetReady(true)
			})

			lc.Append(fx.Hook{
				OnStop: func(_ context.Context) error {
					m.StopAll()
					return nil
				},
			})
		}),
	)
}
