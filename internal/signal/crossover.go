// Package signal превращает снапшоты индикаторов в сигналы BUY/SELL/HOLD
// и решает, какие из них стоит отправлять.
package signal

import "signal_bot/internal/models"

const (
	RSIOversold   = 30.0
	RSIOverbought = 70.0

	StochOversold   = 20.0
	StochOverbought = 80.0

	// VolumeSpike — объём выше среднего в 1.5 раза подтверждает сигнал.
	VolumeSpike = 1.5
)

// Detect сравнивает два последних снапшота. Каждое правило — строгое пересечение:
// на prev значение было по другую сторону уровня/линии.
func Detect(prev, curr models.Snapshot) models.VoteSet {
	return models.VoteSet{
		RSI: cross(
			curr.RSI < RSIOversold && prev.RSI >= RSIOversold,
			curr.RSI > RSIOverbought && prev.RSI <= RSIOverbought,
		),
		MACD: cross(
			curr.MACD > curr.MACDSignal && prev.MACD <= prev.MACDSignal,
			curr.MACD < curr.MACDSignal && prev.MACD >= prev.MACDSignal,
		),
		Bollinger: cross(
			curr.Price < curr.BBLower && prev.Price >= prev.BBLower,
			curr.Price > curr.BBUpper && prev.Price <= prev.BBUpper,
		),
		SMACross: cross(
			curr.SMA10 > curr.SMA50 && prev.SMA10 <= prev.SMA50,
			curr.SMA10 < curr.SMA50 && prev.SMA10 >= prev.SMA50,
		),
		EMACross: cross(
			curr.EMA10 > curr.EMA50 && prev.EMA10 <= prev.EMA50,
			curr.EMA10 < curr.EMA50 && prev.EMA10 >= prev.EMA50,
		),
		Stochastic: cross(
			curr.StochK < StochOversold && prev.StochK >= StochOversold,
			curr.StochK > StochOverbought && prev.StochK <= StochOverbought,
		),
		HighVolume: curr.Volume > VolumeSpike*curr.VolumeSMA,
	}
}

// cross: buy и sell по одному индикатору одновременно невозможны, buy проверяется первым.
func cross(buy, sell bool) models.Vote {
	switch {
	case buy:
		return models.VoteBuy
	case sell:
		return models.VoteSell
	default:
		return models.VoteNone
	}
}
