package service

import (
	"sync/atomic"
	"time"
)

// State — готовность процесса для /readyz и /healthz.
type State struct {
	ready     atomic.Bool
	startedAt time.Time

	telegramConnected atomic.Bool
	lastPassUnix      atomic.Int64 // unix seconds
}

func NewState() *State {
	s := &State{startedAt: time.Now()}
	s.ready.Store(false)
	return s
}

func (s *State) SetReady(v bool) { s.ready.Store(v) }
func (s *State) Ready() bool     { return s.ready.Load() }

func (s *State) SetTelegramConnected(v bool) { s.telegramConnected.Store(v) }
func (s *State) TelegramConnected() bool     { return s.telegramConnected.Load() }

// TouchTick отмечает завершение прохода по вотчлисту.
func (s *State) TouchTick(t time.Time) { s.lastPassUnix.Store(t.Unix()) }
func (s *State) LastTick() time.Time {
	u := s.lastPassUnix.Load()
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }
