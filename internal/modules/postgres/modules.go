package postgres

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"signal_bot/internal/modules/config"
	"signal_bot/pkg/db"
	"signal_bot/pkg/logger"
)

// Module поднимает пул Postgres. Без db_dsn отдаёт nil: вотчлист тогда в памяти или в файле.
func Module() fx.Option {
	return fx.Module("postgres",
		fx.Provide(
			func(lc fx.Lifecycle, cfg *config.Config) (*db.PgTxManager, error) {
				if cfg.DB == "" {
					logger.Info("[DB] db_dsn is empty, postgres disabled")
					return nil, nil
				}

				ctx := context.Background()
				poolMaster, err := db.NewPool(ctx, db.PoolConfig{
					DSN: cfg.DB,
				})
				if err != nil {
					return nil, fmt.Errorf("failed to create poolMaster: %w", err)
				}

				err = poolMaster.Ping(ctx)
				if err != nil {
					poolMaster.Close()
					return nil, err
				}

				m := db.NewPgTxManager(poolMaster)
				lc.Append(fx.Hook{
					OnStop: func(ctx context.Context) error {
						m.Close()
						return nil
					},
				})
				return m, nil
			},
		),
	)
}
