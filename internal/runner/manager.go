package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"signal_bot/pkg/logger"
)

var (
	ErrAlreadyRunning = errors.New("runner already running")
	ErrNotRunning     = errors.New("runner not running")
)

type Config struct {
	Interval time.Duration
}

// Manager управляет раннерами для разных чатов.
type Manager struct {
	cfg Config
	src MarketDataSource
	wl  Watchlist
	pub Publisher

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	runners map[int64]*Runner
	onPass  func(time.Time)
}

func NewManager(cfg Config, src MarketDataSource, wl Watchlist, pub Publisher) *Manager {
	if cfg.Interval <= 0 {
		cfg.Interval = 60 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		cfg:     cfg,
		src:     src,
		wl:      wl,
		pub:     pub,
		ctx:     ctx,
		cancel:  cancel,
		runners: make(map[int64]*Runner),
	}
}

// OnPass — колбэк на каждый завершённый проход любого раннера (health).
func (m *Manager) OnPass(fn func(time.Time)) {
	m.mu.Lock()
	m.onPass = fn
	m.mu.Unlock()
}

// RunForChat стартует воркер для конкретного чата (если ещё не запущен).
func (m *Manager) RunForChat(chatID int64, t TelegramNotifier) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ctx.Err() != nil {
		return fmt.Errorf("chat %d: manager stopped", chatID)
	}
	if _, running := m.runners[chatID]; running {
		return fmt.Errorf("chat %d: %w", chatID, ErrAlreadyRunning)
	}

	r := newRunner(chatID, m.cfg.Interval, m.src, m.wl, t)
	r.pub = m.pub
	r.onPass = m.onPass

	ctx, cancel := context.WithCancel(m.ctx)
	r.cancel = cancel
	m.runners[chatID] = r

	go func() {
		r.Start(ctx)

		// когда Start закончится — выпилим раннер из мапы
		m.mu.Lock()
		if m.runners[chatID] == r {
			delete(m.runners, chatID)
		}
		m.mu.Unlock()
	}()

	return nil
}

// StopForChat останавливает воркер чата и ждёт завершения текущего прохода.
func (m *Manager) StopForChat(chatID int64) error {
	m.mu.Lock()
	r, ok := m.runners[chatID]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("chat %d: %w", chatID, ErrNotRunning)
	}
	delete(m.runners, chatID)
	m.mu.Unlock()

	// Гасим раннер вне мьютекса
	r.Stop()
	return nil
}

// StopAll гасит все раннеры, новые после этого не стартуют.
func (m *Manager) StopAll() {
	m.mu.Lock()
	m.cancel()
	runners := make([]*Runner, 0, len(m.runners))
	for id, r := range m.runners {
		runners = append(runners, r)
		delete(m.runners, id)
	}
	m.mu.Unlock()

	for _, r := range runners {
		r.Stop()
	}
	logger.Info("[RUNNER] all runners stopped (%d)", len(runners))
}

// DropAsset забывает состояние актива во всех раннерах.
func (m *Manager) DropAsset(asset string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.runners {
		r.states.Drop(asset)
	}
}

func (m *Manager) Running() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.runners)
}

func (m *Manager) IsRunning(chatID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.runners[chatID]
	return ok
}
