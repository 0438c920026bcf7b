package models

import "time"

// Side — направление сигнала.
type Side string

const (
	SideNone Side = ""
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
	SideHold Side = "HOLD"
)

func (s Side) Opposite() Side {
	switch s {
	case SideBuy:
		return SideSell
	case SideSell:
		return SideBuy
	default:
		return SideNone
	}
}

// Directional — BUY или SELL.
func (s Side) Directional() bool { return s == SideBuy || s == SideSell }

// Vote — голос одного индикатора.
type Vote int8

const (
	VoteNone Vote = iota
	VoteBuy
	VoteSell
)

func (v Vote) String() string {
	switch v {
	case VoteBuy:
		return "buy"
	case VoteSell:
		return "sell"
	default:
		return "none"
	}
}

// VoteSet — голоса шести индикаторов + подтверждение объёмом.
type VoteSet struct {
	RSI        Vote
	MACD       Vote
	Bollinger  Vote
	SMACross   Vote
	EMACross   Vote
	Stochastic Vote

	// HighVolume: volume > 1.5 * volume_sma на текущей свече.
	HighVolume bool
}

func (v VoteSet) All() []Vote {
	return []Vote{v.RSI, v.MACD, v.Bollinger, v.SMACross, v.EMACross, v.Stochastic}
}

// Count — голоса за buy/sell без учёта объёма.
func (v VoteSet) Count() (buy, sell int) {
	for _, x := range v.All() {
		switch x {
		case VoteBuy:
			buy++
		case VoteSell:
			sell++
		}
	}
	return buy, sell
}

// Signal — результат агрегации голосов по одному активу.
type Signal struct {
	Asset     string
	Side      Side // BUY / SELL / HOLD
	Snapshot  Snapshot
	BuyVotes  int
	SellVotes int
	// Boosted: к стороне сигнала добавлен голос объёма.
	Boosted bool
}

// SignalState — память дедупликации по активу.
type SignalState struct {
	LastSide     Side
	LastSnapshot Snapshot
	EmittedAt    time.Time
}
