package market

import (
	"go.uber.org/fx"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/market/service"
)

func NewClient(cfg *config.Config) *service.Client {
	return service.NewClient(service.Config{
		BaseURL:    cfg.Market.BaseURL,
		APIKey:     cfg.Market.APIKey,
		VsCurrency: cfg.Market.VsCurrency,
		Days:       cfg.Market.Days,
		Timeout:    cfg.Market.FetchTimeout,
	})
}

// Module — источник свечей и цен (CoinGecko).
func Module() fx.Option {
	return fx.Module("market",
		fx.Provide(NewClient),
	)
}
