package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"signal_bot/internal/modules/config"
	health "signal_bot/internal/modules/health/service"
	market "signal_bot/internal/modules/market/service"
	watchlist "signal_bot/internal/modules/watchlist/service"
	"signal_bot/internal/runner"
	"signal_bot/pkg/logger"
)

// Runners — управление раннерами чатов (runner.Manager).
type Runners interface {
	RunForChat(chatID int64, t runner.TelegramNotifier) error
	StopForChat(chatID int64) error
}

type Watchlist interface {
	Add(ctx context.Context, asset string) (watchlist.AddResult, error)
	Remove(ctx context.Context, asset string) (watchlist.RemoveResult, error)
	List() []string
}

type Prices interface {
	LivePrice(ctx context.Context, asset string) (float64, error)
	VsCurrency() string
}

type sender interface {
	Send(c tgbot.Chattable) (tgbot.Message, error)
}

// Telegram
type Telegram struct {
	bot     *tgbot.BotAPI
	out     sender
	manager Runners
	wl      Watchlist
	prices  Prices

	ctx      context.Context
	cancel   context.CancelFunc
	started  atomic.Bool
	loopDone chan struct{}
	wg       sync.WaitGroup
}

func NewTelegram(
	cfg *config.Config,
	manager *runner.Manager,
	wl *watchlist.Store,
	prices *market.Client,
	state *health.State,
) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	b.Debug = cfg.Telegram.Debug
	state.SetTelegramConnected(true)
	logger.Info("[TG] authorized as @%s", b.Self.UserName)

	t := newTelegram(b, manager, wl, prices)
	t.bot = b
	return t, nil
}

func newTelegram(out sender, manager Runners, wl Watchlist, prices Prices) *Telegram {
	ctx, cancel := context.WithCancel(context.Background())
	return &Telegram{
		out:      out,
		manager:  manager,
		wl:       wl,
		prices:   prices,
		ctx:      ctx,
		cancel:   cancel,
		loopDone: make(chan struct{}),
	}
}

func (t *Telegram) Send(ctx context.Context, chatID int64, msg string) (tgbot.Message, error) {
	return t.out.Send(tgbot.NewMessage(chatID, msg))
}

func (t *Telegram) SendF(ctx context.Context, chatID int64, format string, args ...any) (tgbot.Message, error) {
	return t.Send(ctx, chatID, fmt.Sprintf(format, args...))
}

func (t *Telegram) SendMessage(_ context.Context, message tgbot.MessageConfig) (tgbot.Message, error) {
	return t.out.Send(message)
}

// Start — long polling до Stop. Каждый апдейт обрабатывается в своей горутине:
// /stop ждёт конца текущего прохода и не должен тормозить остальные чаты.
func (t *Telegram) Start(parent context.Context) {
	t.started.Store(true)
	defer close(t.loopDone)

	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	updates := t.bot.GetUpdatesChan(u)

	for {
		select {
		case <-parent.Done():
			return
		case <-t.ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			t.wg.Add(1)
			go func() {
				defer t.wg.Done()
				t.handleUpdate(t.ctx, update)
			}()
		}
	}
}

// Stop гасит long polling и ждёт обработчики, которые уже в работе.
func (t *Telegram) Stop() {
	t.cancel()
	if t.bot != nil {
		t.bot.StopReceivingUpdates()
	}
	if t.started.Load() {
		<-t.loopDone
	}
	t.wg.Wait()
}
