package watchlist

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/watchlist/service"
	"signal_bot/internal/modules/watchlist/service/file"
	"signal_bot/internal/modules/watchlist/service/pg"
	"signal_bot/pkg/db"
)

type migrator interface {
	Migrate(ctx context.Context) error
}

// NewRepository выбирает хранилище по watchlist.store.
func NewRepository(cfg *config.Config, tx *db.PgTxManager) (service.Repository, error) {
	switch cfg.Watchlist.Store {
	case config.StoreFile:
		return file.NewWatchlist(cfg.Watchlist.FilePath), nil
	case config.StorePG:
		if tx == nil {
			return nil, fmt.Errorf("watchlist.store=pg: postgres is not configured")
		}
		return pg.NewWatchlist(tx), nil
	default:
		return service.NewMemory(), nil
	}
}

func Module() fx.Option {
	return fx.Module("watchlist",
		fx.Provide(
			NewRepository,
			service.NewStore,
		),
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config, repo service.Repository, store *service.Store) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					if m, ok := repo.(migrator); ok {
						if err := m.Migrate(ctx); err != nil {
							return err
						}
					}
					return store.Init(ctx, cfg.Watchlist.Initial)
				},
			})
		}),
	)
}
