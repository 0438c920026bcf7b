package indicators

import (
	"math"
	"testing"
	"time"

	"signal_bot/internal/models"
)

var t0 = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

// seriesFrom строит серию с high=close+1, low=close-1 и шагом 30 минут.
func seriesFrom(closes []float64) models.CandleSeries {
	candles := make([]models.Candle, len(closes))
	for i, c := range closes {
		candles[i] = models.Candle{
			Time:  t0.Add(time.Duration(i) * 30 * time.Minute),
			Open:  c,
			High:  c + 1,
			Low:   c - 1,
			Close: c,
		}
	}
	return models.CandleSeries{Asset: "test", Candles: candles}
}

func ramp(n int, base, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = base + step*float64(i)
	}
	return out
}

func flat(n int, price float64) []float64 {
	return ramp(n, price, 0)
}

func assertClose(t *testing.T, label string, got, want, tol float64) {
	t.Helper()
	if math.IsNaN(got) || math.Abs(got-want) > tol {
		t.Errorf("%s: got %.6f, want %.6f (tol=%g)", label, got, want, tol)
	}
}
