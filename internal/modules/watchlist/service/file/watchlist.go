package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v2"
)

const defaultPath = "data/watchlist.yaml"

// Watchlist хранит список в YAML-файле.
type Watchlist struct {
	path string
	mu   sync.Mutex
}

func NewWatchlist(path string) *Watchlist {
	if path == "" {
		path = defaultPath
	}
	return &Watchlist{path: path}
}

// ---- storage format ----

type snapshot struct {
	UpdatedAt time.Time `yaml:"updated_at"`
	Assets    []string  `yaml:"assets"`
}

func (w *Watchlist) Load(ctx context.Context) ([]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	b, err := os.ReadFile(w.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", w.path, err)
	}

	var snap snapshot
	if err := yaml.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("decode %s: %w", w.path, err)
	}
	return snap.Assets, nil
}

func (w *Watchlist) Save(ctx context.Context, assets []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return err
	}

	b, err := yaml.Marshal(&snapshot{
		UpdatedAt: time.Now().UTC(),
		Assets:    append([]string{}, assets...),
	})
	if err != nil {
		return err
	}

	tmp := w.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, w.path) // атомарно
}
