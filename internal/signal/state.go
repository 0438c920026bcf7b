package signal

import (
	"sync"
	"time"

	"signal_bot/internal/models"
)

type assetState struct {
	mu    sync.Mutex
	state models.SignalState
}

// StateStore — память последних отправленных сигналов по активам.
// Решение по одному активу принимается под его собственным мьютексом.
type StateStore struct {
	mu     sync.Mutex
	assets map[string]*assetState
	now    func() time.Time
}

func NewStateStore() *StateStore {
	return &StateStore{
		assets: make(map[string]*assetState),
		now:    time.Now,
	}
}

func (s *StateStore) get(asset string) *assetState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.assets[asset]
	if !ok {
		st = &assetState{}
		s.assets[asset] = st
	}
	return st
}

// Apply — автомат дедупликации. Возвращает true, если сигнал надо отправить;
// состояние меняется только в этом случае.
//
//	None -> BUY/SELL   emit
//	BUY  -> SELL       emit
//	SELL -> BUY        emit
//	X    -> X          suppress
//	*    -> HOLD       suppress
func (s *StateStore) Apply(sig models.Signal) bool {
	st := s.get(sig.Asset)

	st.mu.Lock()
	defer st.mu.Unlock()

	if !sig.Side.Directional() {
		return false
	}
	if st.state.LastSide == sig.Side {
		return false
	}
	st.state = models.SignalState{
		LastSide:     sig.Side,
		LastSnapshot: sig.Snapshot,
		EmittedAt:    s.now(),
	}
	return true
}

// Get возвращает состояние актива; false, если актив ещё не оценивался.
func (s *StateStore) Get(asset string) (models.SignalState, bool) {
	s.mu.Lock()
	st, ok := s.assets[asset]
	s.mu.Unlock()
	if !ok {
		return models.SignalState{}, false
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state, true
}

// Drop забывает актив (удалён из вотчлиста).
func (s *StateStore) Drop(asset string) {
	s.mu.Lock()
	delete(s.assets, asset)
	s.mu.Unlock()
}

// Retain оставляет только перечисленные активы.
func (s *StateStore) Retain(assets []string) {
	keep := make(map[string]struct{}, len(assets))
	for _, a := range assets {
		keep[a] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for a := range s.assets {
		if _, ok := keep[a]; !ok {
			delete(s.assets, a)
		}
	}
}

func (s *StateStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.assets)
}
