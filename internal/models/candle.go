package models

import "time"

// Candle — одна OHLC-свеча.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64 // 0, если источник не отдаёт объём
}

// CandleSeries — свечи одного актива, Time строго возрастает.
type CandleSeries struct {
	Asset     string
	Candles   []Candle
	HasVolume bool
}

func (s CandleSeries) Len() int { return len(s.Candles) }

func (s CandleSeries) Closes() []float64 {
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = c.Close
	}
	return out
}

func (s CandleSeries) Highs() []float64 {
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = c.High
	}
	return out
}

func (s CandleSeries) Lows() []float64 {
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = c.Low
	}
	return out
}
