package service

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
)

type failingRepo struct {
	Memory
	fail bool
}

func (f *failingRepo) Save(ctx context.Context, assets []string) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.Memory.Save(ctx, assets)
}

func TestStore_AddRemove(t *testing.T) {
	ctx := context.Background()
	s := NewStore(NewMemory())

	if r, err := s.Add(ctx, " Bitcoin "); err != nil || r != Added {
		t.Fatalf("add: %v %v", r, err)
	}
	if r, _ := s.Add(ctx, "bitcoin"); r != AlreadyPresent {
		t.Fatalf("duplicate add must be AlreadyPresent, got %v", r)
	}
	_, _ = s.Add(ctx, "ethereum")
	_, _ = s.Add(ctx, "solana")

	if got := s.List(); !reflect.DeepEqual(got, []string{"bitcoin", "ethereum", "solana"}) {
		t.Fatalf("list %v", got)
	}

	if r, _ := s.Remove(ctx, "ETHEREUM"); r != Removed {
		t.Fatalf("remove: %v", r)
	}
	if r, _ := s.Remove(ctx, "ethereum"); r != NotPresent {
		t.Fatalf("second remove must be NotPresent, got %v", r)
	}
	if got := s.List(); !reflect.DeepEqual(got, []string{"bitcoin", "solana"}) {
		t.Fatalf("order not preserved: %v", got)
	}
	if !s.Contains("SOLANA") || s.Contains("ethereum") || s.Len() != 2 {
		t.Fatal("contains/len mismatch")
	}
}

func TestStore_EmptyAsset(t *testing.T) {
	s := NewStore(nil)
	if _, err := s.Add(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestStore_ListIsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewStore(NewMemory())
	_, _ = s.Add(ctx, "bitcoin")

	l := s.List()
	l[0] = "mutated"
	if s.List()[0] != "bitcoin" {
		t.Fatal("List must return a copy")
	}
}

func TestStore_SaveFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := &failingRepo{}
	s := NewStore(repo)
	_, _ = s.Add(ctx, "bitcoin")

	repo.fail = true
	if _, err := s.Add(ctx, "ethereum"); err == nil {
		t.Fatal("expected save error")
	}
	if _, err := s.Remove(ctx, "bitcoin"); err == nil {
		t.Fatal("expected save error")
	}
	if got := s.List(); !reflect.DeepEqual(got, []string{"bitcoin"}) {
		t.Fatalf("in-memory list must be unchanged, got %v", got)
	}
}

func TestStore_OnRemoveHooks(t *testing.T) {
	ctx := context.Background()
	s := NewStore(NewMemory())
	_, _ = s.Add(ctx, "bitcoin")

	var removed []string
	s.OnRemove(func(a string) { removed = append(removed, a) })

	_, _ = s.Remove(ctx, "dogecoin")
	_, _ = s.Remove(ctx, "Bitcoin")
	if !reflect.DeepEqual(removed, []string{"bitcoin"}) {
		t.Fatalf("hooks got %v", removed)
	}
}

func TestStore_Init(t *testing.T) {
	ctx := context.Background()

	repo := NewMemory()
	s := NewStore(repo)
	if err := s.Init(ctx, []string{"Bitcoin", "ethereum", "bitcoin", ""}); err != nil {
		t.Fatal(err)
	}
	if got := s.List(); !reflect.DeepEqual(got, []string{"bitcoin", "ethereum"}) {
		t.Fatalf("seeded list %v", got)
	}
	saved, _ := repo.Load(ctx)
	if !reflect.DeepEqual(saved, []string{"bitcoin", "ethereum"}) {
		t.Fatalf("seed not persisted: %v", saved)
	}

	// непустой репозиторий главнее initial
	s2 := NewStore(repo)
	if err := s2.Init(ctx, []string{"solana"}); err != nil {
		t.Fatal(err)
	}
	if got := s2.List(); !reflect.DeepEqual(got, []string{"bitcoin", "ethereum"}) {
		t.Fatalf("loaded list %v", got)
	}
}

func TestStore_ConcurrentAdd(t *testing.T) {
	ctx := context.Background()
	s := NewStore(NewMemory())

	var wg sync.WaitGroup
	var mu sync.Mutex
	added := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r, _ := s.Add(ctx, "bitcoin"); r == Added {
				mu.Lock()
				added++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if added != 1 || s.Len() != 1 {
		t.Fatalf("added=%d len=%d", added, s.Len())
	}
}
