package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"signal_bot/pkg/logger"
)

type AddResult int

const (
	Added AddResult = iota
	AlreadyPresent
)

type RemoveResult int

const (
	Removed RemoveResult = iota
	NotPresent
)

// Repository — где живёт вотчлист между перезапусками.
type Repository interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, assets []string) error
}

// Store — общий на процесс вотчлист: уникальные id в порядке добавления.
type Store struct {
	repo Repository

	mu     sync.RWMutex
	assets []string

	hookMu   sync.RWMutex
	onRemove []func(asset string)
}

func NewStore(repo Repository) *Store {
	if repo == nil {
		repo = NewMemory()
	}
	return &Store{repo: repo}
}

func Normalize(asset string) string {
	return strings.ToLower(strings.TrimSpace(asset))
}

// Init загружает список из репозитория. Пустой репозиторий засевается initial.
func (s *Store) Init(ctx context.Context, initial []string) error {
	loaded, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("watchlist load: %w", err)
	}

	seed := len(loaded) == 0 && len(initial) > 0
	if seed {
		loaded = initial
	}

	s.mu.Lock()
	s.assets = uniq(loaded)
	snapshot := append([]string(nil), s.assets...)
	s.mu.Unlock()

	if seed {
		if err := s.repo.Save(ctx, snapshot); err != nil {
			return fmt.Errorf("watchlist seed: %w", err)
		}
	}
	logger.Info("[WATCHLIST] loaded %d asset(s): %v", len(snapshot), snapshot)
	return nil
}

func (s *Store) Add(ctx context.Context, asset string) (AddResult, error) {
	asset = Normalize(asset)
	if asset == "" {
		return AlreadyPresent, fmt.Errorf("empty asset id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOf(s.assets, asset) >= 0 {
		return AlreadyPresent, nil
	}

	next := append(append([]string(nil), s.assets...), asset)
	if err := s.repo.Save(ctx, next); err != nil {
		return Added, fmt.Errorf("watchlist save: %w", err)
	}
	s.assets = next
	return Added, nil
}

// Remove удаляет актив и после успешного сохранения вызывает OnRemove-хуки.
func (s *Store) Remove(ctx context.Context, asset string) (RemoveResult, error) {
	asset = Normalize(asset)

	s.mu.Lock()
	i := indexOf(s.assets, asset)
	if i < 0 {
		s.mu.Unlock()
		return NotPresent, nil
	}

	next := make([]string, 0, len(s.assets)-1)
	next = append(next, s.assets[:i]...)
	next = append(next, s.assets[i+1:]...)
	if err := s.repo.Save(ctx, next); err != nil {
		s.mu.Unlock()
		return Removed, fmt.Errorf("watchlist save: %w", err)
	}
	s.assets = next
	s.mu.Unlock()

	s.hookMu.RLock()
	hooks := append([]func(string){}, s.onRemove...)
	s.hookMu.RUnlock()
	for _, fn := range hooks {
		fn(asset)
	}
	return Removed, nil
}

// List — копия списка, её можно обходить без блокировки.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.assets...)
}

func (s *Store) Contains(asset string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return indexOf(s.assets, Normalize(asset)) >= 0
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.assets)
}

func (s *Store) OnRemove(fn func(asset string)) {
	s.hookMu.Lock()
	s.onRemove = append(s.onRemove, fn)
	s.hookMu.Unlock()
}

func indexOf(list []string, asset string) int {
	for i, a := range list {
		if a == asset {
			return i
		}
	}
	return -1
}

func uniq(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, a := range in {
		a = Normalize(a)
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}
