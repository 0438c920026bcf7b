package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"signal_bot/internal/models"
)

type fakeNotifier struct {
	mu   sync.Mutex
	msgs []string
	err  error
}

func (f *fakeNotifier) Send(ctx context.Context, chatID int64, msg string) (tgbot.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
	return tgbot.Message{Text: msg}, f.err
}

func (f *fakeNotifier) SendF(ctx context.Context, chatID int64, format string, args ...any) (tgbot.Message, error) {
	return f.Send(ctx, chatID, fmt.Sprintf(format, args...))
}

func (f *fakeNotifier) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.msgs...)
}

type fakeSource struct {
	mu     sync.Mutex
	series map[string]models.CandleSeries
	errs   map[string]error
	panics map[string]bool
	calls  []string
}

func (f *fakeSource) FetchCandles(ctx context.Context, asset string) (models.CandleSeries, error) {
	f.mu.Lock()
	f.calls = append(f.calls, asset)
	f.mu.Unlock()

	if f.panics[asset] {
		panic("boom " + asset)
	}
	if err, ok := f.errs[asset]; ok {
		return models.CandleSeries{}, err
	}
	return f.series[asset], nil
}

func (f *fakeSource) fetched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeWatchlist struct {
	mu     sync.Mutex
	assets []string
}

func (f *fakeWatchlist) List() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.assets...)
}

func (f *fakeWatchlist) set(assets ...string) {
	f.mu.Lock()
	f.assets = assets
	f.mu.Unlock()
}

type fakePublisher struct {
	mu     sync.Mutex
	alerts []models.Alert
}

func (f *fakePublisher) Publish(a models.Alert) {
	f.mu.Lock()
	f.alerts = append(f.alerts, a)
	f.mu.Unlock()
}

func series(asset string, closes []float64) models.CandleSeries {
	t0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, len(closes))
	for i, c := range closes {
		candles[i] = models.Candle{
			Time:  t0.Add(time.Duration(i) * 30 * time.Minute),
			Open:  c,
			High:  c + 1,
			Low:   c - 1,
			Close: c,
		}
	}
	return models.CandleSeries{Asset: asset, Candles: candles}
}

// reversal даёт BUY на последней свече: MACD, SMA и EMA пересекаются вверх.
func reversal(asset string) models.CandleSeries {
	closes := make([]float64, 0, 60)
	for i := 0; i < 55; i++ {
		closes = append(closes, 1000-float64(i))
	}
	return series(asset, append(closes, 943, 940, 937, 934, 1500))
}

// decline — ровное падение, свежих пересечений нет.
func decline(asset string) models.CandleSeries {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 1000 - float64(i)
	}
	return series(asset, closes)
}

type sleepRecorder struct {
	mu    sync.Mutex
	calls []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.calls = append(s.calls, d)
	s.mu.Unlock()
	return ctx.Err()
}

func newTestRunner(src MarketDataSource, wl Watchlist, n TelegramNotifier) (*Runner, *sleepRecorder, *fakePublisher) {
	r := newRunner(42, time.Hour, src, wl, n)
	rec := &sleepRecorder{}
	r.sleep = rec.sleep
	pub := &fakePublisher{}
	r.pub = pub
	return r, rec, pub
}
