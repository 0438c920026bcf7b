package runner

import (
	"context"
	"errors"
	"time"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"

	"signal_bot/internal/indicators"
	"signal_bot/internal/models"
	market "signal_bot/internal/modules/market/service"
	"signal_bot/internal/signal"
	"signal_bot/pkg/logger"
	"signal_bot/pkg/metrics"
	"signal_bot/pkg/tracing"
)

// PacingDelay — пауза между активами внутри прохода, бережём лимиты CoinGecko.
const PacingDelay = time.Second

type TelegramNotifier interface {
	SendF(ctx context.Context, chatID int64, format string, args ...any) (tgbot.Message, error)
	Send(ctx context.Context, chatID int64, msg string) (tgbot.Message, error)
}

// MarketDataSource — откуда берём свечи.
type MarketDataSource interface {
	FetchCandles(ctx context.Context, asset string) (models.CandleSeries, error)
}

type Watchlist interface {
	List() []string
}

// Publisher — live-лента алертов. Publish не должен блокировать.
type Publisher interface {
	Publish(alert models.Alert)
}

// Runner — периодические проходы по вотчлисту для одного чата.
type Runner struct {
	chatID   int64
	interval time.Duration

	src    MarketDataSource
	wl     Watchlist
	eval   *signal.Evaluator
	states *signal.StateStore
	n      TelegramNotifier
	pub    Publisher

	onPass func(time.Time)
	sleep  func(ctx context.Context, d time.Duration) error
	now    func() time.Time

	emptyNotified bool

	cancel context.CancelFunc
	done   chan struct{}
}

func newRunner(chatID int64, interval time.Duration, src MarketDataSource, wl Watchlist, n TelegramNotifier) *Runner {
	return &Runner{
		chatID:   chatID,
		interval: interval,
		src:      src,
		wl:       wl,
		eval:     signal.NewEvaluator(indicators.NewEngine()),
		states:   signal.NewStateStore(),
		n:        n,
		sleep:    sleepCtx,
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Start крутит проходы до отмены ctx: первый сразу, дальше по тикеру.
// Проход, который не уложился в интервал, просто сдвигает следующий тик.
func (r *Runner) Start(ctx context.Context) {
	defer close(r.done)

	logger.Info("[RUNNER] ▶️ chat=%d start, interval=%s", r.chatID, r.interval)
	defer logger.Info("[RUNNER] ⏹ chat=%d stopped", r.chatID)

	r.Pass(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Pass(ctx)
		}
	}
}

func (r *Runner) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	<-r.done
}

// Pass — один проход по снимку вотчлиста, активы строго по очереди.
func (r *Runner) Pass(ctx context.Context) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "runner.pass")
	defer span.Finish()
	span.SetTag("chat_id", r.chatID)

	started := r.now()
	assets := r.wl.List()
	span.SetTag("assets", len(assets))

	if len(assets) == 0 {
		if !r.emptyNotified {
			r.emptyNotified = true
			if _, err := r.n.Send(ctx, r.chatID, emptyWatchlistText); err != nil {
				metrics.NotificationsFailed.Inc()
				logger.Error("[PASS] chat=%d notify empty watchlist: %v", r.chatID, err)
			}
		}
		r.finishPass(started)
		return
	}
	r.emptyNotified = false
	r.states.Retain(assets)

	for i, asset := range assets {
		if i > 0 {
			if err := r.sleep(ctx, PacingDelay); err != nil {
				return
			}
		}
		if ctx.Err() != nil {
			return
		}
		outcome := r.evaluate(ctx, asset)
		metrics.Evaluations.WithLabelValues(outcome).Inc()
	}

	r.finishPass(started)
	logger.Info("[PASS] chat=%d %d asset(s) in %s trace=%s",
		r.chatID, len(assets), time.Since(started).Round(time.Millisecond), tracing.TraceID(span))
}

func (r *Runner) finishPass(started time.Time) {
	metrics.PassesTotal.Inc()
	metrics.PassDuration.Observe(time.Since(started).Seconds())
	if r.onPass != nil {
		r.onPass(r.now())
	}
}

// evaluate: свечи -> сигнал -> дедупликация -> доставка. Возвращает исход для метрик.
// Паника по одному активу не роняет проход.
func (r *Runner) evaluate(ctx context.Context, asset string) (outcome string) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "runner.evaluate")
	defer span.Finish()
	span.SetTag("asset", asset)

	log := logger.L().With(zap.Int64("chat_id", r.chatID), zap.String("asset", asset))

	defer func() {
		if p := recover(); p != nil {
			log.Error("[RUNNER] panic in evaluation", zap.Any("panic", p))
			outcome = metrics.OutcomePanic
		}
		span.SetTag("outcome", outcome)
	}()

	series, err := r.src.FetchCandles(ctx, asset)
	switch {
	case err == nil:
	case errors.Is(err, market.ErrUnknownAsset), errors.Is(err, market.ErrNoData):
		log.Info("[RUNNER] no data, skip", zap.Error(err))
		return metrics.OutcomeNoData
	case market.IsTransient(err):
		log.Warn("[RUNNER] transient fetch error, retry next pass", zap.Error(err))
		return metrics.OutcomeFetchError
	default:
		log.Error("[RUNNER] fetch failed", zap.Error(err))
		return metrics.OutcomeFetchError
	}

	sig, votes, err := r.eval.Evaluate(series)
	switch {
	case err == nil:
	case errors.Is(err, indicators.ErrInsufficientHistory):
		log.Info("[RUNNER] insufficient history, skip", zap.Int("candles", series.Len()))
		return metrics.OutcomeInsufficient
	default:
		log.Error("[RUNNER] evaluation failed", zap.Error(err))
		return metrics.OutcomeNoData
	}

	buy, sell := votes.Count()
	log.Debug("[RUNNER] evaluated",
		zap.String("side", string(sig.Side)),
		zap.Int("buy_votes", buy),
		zap.Int("sell_votes", sell),
		zap.Bool("high_volume", votes.HighVolume),
		zap.Float64("price", sig.Snapshot.Price),
	)

	if sig.Side == models.SideHold {
		return metrics.OutcomeHold
	}
	// состояние фиксируется до отправки: упавшая доставка не даст шторма повторов
	if !r.states.Apply(sig) {
		return metrics.OutcomeSuppressed
	}

	r.deliver(ctx, sig)
	return metrics.OutcomeSignal
}

func (r *Runner) deliver(ctx context.Context, sig models.Signal) {
	text := FormatAlert(sig)
	logger.Info("[SIGNAL] chat=%d %s", r.chatID, text)
	metrics.SignalsEmitted.WithLabelValues(string(sig.Side)).Inc()

	if r.pub != nil {
		r.pub.Publish(models.NewAlert(r.chatID, sig, text, r.now()))
	}

	if _, err := r.n.Send(ctx, r.chatID, text); err != nil {
		metrics.NotificationsFailed.Inc()
		logger.Error("[SIGNAL] chat=%d deliver %s: %v", r.chatID, sig.Asset, err)
	}
}
