package service

import (
	"context"
	"sync"
)

// Memory — репозиторий без персистентности, список живёт до рестарта.
type Memory struct {
	mu     sync.Mutex
	assets []string
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Load(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.assets...), nil
}

func (m *Memory) Save(ctx context.Context, assets []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets = append([]string(nil), assets...)
	return nil
}
