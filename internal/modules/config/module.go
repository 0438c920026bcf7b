package config

import "go.uber.org/fx"

// Module отдаёт в граф уже загруженный конфиг: он нужен раньше fx для логгера и трейсера.
func Module(cfg *Config) fx.Option {
	return fx.Module("config",
		fx.Supply(cfg),
	)
}
