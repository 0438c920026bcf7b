package health

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/fx"

	"signal_bot/internal/modules/config"
	feed "signal_bot/internal/modules/feed/service"
	"signal_bot/internal/modules/health/service"
	watchlist "signal_bot/internal/modules/watchlist/service"
	"signal_bot/internal/runner"
	"signal_bot/pkg/logger"
	"signal_bot/pkg/metrics"
)

type Config struct {
	Addr string // например ":8080"
}

func NewConfig(cfg *config.Config) Config {
	addr := cfg.Service.HTTPAddr
	if addr == "" {
		addr = ":8080"
	}
	return Config{Addr: addr}
}

// Stats — то, что показываем в /healthz.
type Stats struct {
	Runners   func() int
	Watchlist func() int
	Feed      func() int
}

func NewStats(m *runner.Manager, wl *watchlist.Store, hub *feed.Hub) Stats {
	return Stats{
		Runners:   m.Running,
		Watchlist: wl.Len,
		Feed:      hub.ClientCount,
	}
}

func NewMux(state *service.State, stats Stats, hub *feed.Hub) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		// liveness: процесс жив
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		// readiness: хотя бы один проход по вотчлисту завершён
		if !state.Ready() {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		// полезный JSON для отладки
		resp := map[string]any{
			"ready":             state.Ready(),
			"telegramConnected": state.TelegramConnected(),
			"uptimeSec":         int64(state.Uptime().Seconds()),
			"runners":           call(stats.Runners),
			"watchlistSize":     call(stats.Watchlist),
			"feedClients":       call(stats.Feed),
			"lastPassUnix": func() int64 {
				t := state.LastTick()
				if t.IsZero() {
					return 0
				}
				return t.Unix()
			}(),
		}
		b, err := sonic.Marshal(resp)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(b)
	})

	mux.Handle("/metrics", metrics.Handler())
	if hub != nil {
		mux.Handle("/ws/signals", hub)
	}

	return mux
}

func call(fn func() int) int {
	if fn == nil {
		return 0
	}
	return fn()
}

func RunHTTP(lc fx.Lifecycle, cfg Config, mux *http.ServeMux) {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", cfg.Addr)
			if err != nil {
				return err
			}
			logger.Info("[HTTP] listening on %s", cfg.Addr)
			go func() {
				if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
					logger.Error("[HTTP] serve: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func Module() fx.Option {
	return fx.Module("health",
		fx.Provide(
			service.NewState,
			NewConfig,
			NewStats,
			NewMux,
		),
		fx.Invoke(RunHTTP),
	)
}
