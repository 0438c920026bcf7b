// Package indicators считает набор индикаторов по серии свечей.
//
// Все расчёты чистые: результат зависит только от серии, без состояния между вызовами.
package indicators

import (
	"errors"
	"fmt"
	"math"

	"signal_bot/internal/models"

	"github.com/markcheno/go-talib"
)

const (
	RSIPeriod = 14

	MACDFast   = 12
	MACDSlow   = 26
	MACDSignal = 9

	SMAShort = 10
	SMALong  = 50

	BBPeriod = 20
	BBDev    = 2.0

	StochFastK = 14
	StochSlowK = 3
	StochSlowD = 3

	VolumePeriod = 20
	// VolumeMultiplier — оценка объёма close*100, когда источник объём не отдаёт.
	// Это приближение, а не реальный объём: Snapshot.VolumeEstimated = true.
	VolumeMultiplier = 100.0

	// MinCandles — первая свеча (индекс MinCandles-1), на которой определены все индикаторы.
	MinCandles = SMALong
)

var (
	// ErrInsufficientHistory — свечей меньше MinCandles; для новых активов это нормально.
	ErrInsufficientHistory = errors.New("insufficient candle history")
	// ErrInvalidSeries — в серии нечисловые или неположительные цены.
	ErrInvalidSeries = errors.New("invalid candle series")
)

// Engine считает снапшоты индикаторов.
type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

// Compute возвращает снапшот для каждой свечи начиная с MinCandles-1.
func (e *Engine) Compute(series models.CandleSeries) ([]models.Snapshot, error) {
	n := series.Len()
	if n < MinCandles {
		return nil, fmt.Errorf("%s: %d candles, need %d: %w", series.Asset, n, MinCandles, ErrInsufficientHistory)
	}
	for i, c := range series.Candles {
		if !finitePositive(c.Close) || !finitePositive(c.High) || !finitePositive(c.Low) {
			return nil, fmt.Errorf("%s: candle %d: %w", series.Asset, i, ErrInvalidSeries)
		}
	}

	closes := series.Closes()
	highs := series.Highs()
	lows := series.Lows()

	rsi := RSI(closes, RSIPeriod)
	macd, macdSignal := MACD(closes, MACDFast, MACDSlow, MACDSignal)
	sma10 := talib.Sma(closes, SMAShort)
	sma50 := talib.Sma(closes, SMALong)
	ema10 := talib.Ema(closes, SMAShort)
	ema50 := talib.Ema(closes, SMALong)
	bbUpper, _, bbLower := talib.BBands(closes, BBPeriod, BBDev, BBDev, talib.SMA)
	stochK, _ := talib.Stoch(highs, lows, closes, StochFastK, StochSlowK, talib.SMA, StochSlowD, talib.SMA)

	volumes := make([]float64, n)
	for i, c := range series.Candles {
		if series.HasVolume {
			volumes[i] = c.Volume
		} else {
			volumes[i] = c.Close * VolumeMultiplier
		}
	}
	volumeSMA := talib.Sma(volumes, VolumePeriod)

	out := make([]models.Snapshot, 0, n-MinCandles+1)
	for i := MinCandles - 1; i < n; i++ {
		out = append(out, models.Snapshot{
			Time:            series.Candles[i].Time,
			Price:           closes[i],
			RSI:             rsi[i],
			MACD:            macd[i],
			MACDSignal:      macdSignal[i],
			SMA10:           sma10[i],
			SMA50:           sma50[i],
			EMA10:           ema10[i],
			EMA50:           ema50[i],
			BBUpper:         bbUpper[i],
			BBLower:         bbLower[i],
			StochK:          stochK[i],
			Volume:          volumes[i],
			VolumeSMA:       volumeSMA[i],
			VolumeEstimated: !series.HasVolume,
		})
	}
	return out, nil
}

// MACD: EMA(fast)-EMA(slow); сигнальная линия — EMA(signal) только по определённой
// части линии MACD (talib.Macd сглаживает и прогревочные нули, поэтому не используем).
// Неопределённые значения — NaN.
func MACD(closes []float64, fast, slow, signal int) (line, signalLine []float64) {
	n := len(closes)
	line = nanSlice(n)
	signalLine = nanSlice(n)
	if n < slow+signal-1 {
		return line, signalLine
	}

	fastEMA := talib.Ema(closes, fast)
	slowEMA := talib.Ema(closes, slow)
	start := slow - 1
	for i := start; i < n; i++ {
		line[i] = fastEMA[i] - slowEMA[i]
	}

	sig := talib.Ema(line[start:], signal)
	for i := start + signal - 1; i < n; i++ {
		signalLine[i] = sig[i-start]
	}
	return line, signalLine
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
