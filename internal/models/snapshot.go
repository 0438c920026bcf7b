package models

import "time"

// Snapshot — все индикаторы на одной свече.
type Snapshot struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`

	RSI        float64 `json:"rsi"`
	MACD       float64 `json:"macd"`
	MACDSignal float64 `json:"macd_signal"`
	SMA10      float64 `json:"sma10"`
	SMA50      float64 `json:"sma50"`
	EMA10      float64 `json:"ema10"`
	EMA50      float64 `json:"ema50"`
	BBUpper    float64 `json:"bb_upper"`
	BBLower    float64 `json:"bb_lower"`
	StochK     float64 `json:"stoch_k"`

	Volume    float64 `json:"volume"`
	VolumeSMA float64 `json:"volume_sma"`
	// VolumeEstimated: объём не настоящий, а close*множитель (у источника нет объёма).
	VolumeEstimated bool `json:"volume_estimated"`
}
