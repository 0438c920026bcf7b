package indicators

import "math"

// RSI по Уайлдеру: первые period изменений усредняются простым средним,
// дальше avg = (prev*(period-1) + x) / period.
// До индекса period значения NaN.
func RSI(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	for i := range out {
		out[i] = math.NaN()
	}
	if period <= 0 || len(closes) <= period {
		return out
	}

	avgGain, avgLoss := 0.0, 0.0
	for i := 1; i <= period; i++ {
		gain, loss := change(closes[i-1], closes[i])
		avgGain += gain
		avgLoss += loss
	}
	p := float64(period)
	avgGain /= p
	avgLoss /= p
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < len(closes); i++ {
		gain, loss := change(closes[i-1], closes[i])
		avgGain = (avgGain*(p-1) + gain) / p
		avgLoss = (avgLoss*(p-1) + loss) / p
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func change(prev, curr float64) (gain, loss float64) {
	d := curr - prev
	if d > 0 {
		return d, 0
	}
	return 0, -d
}

// rsiValue: нет потерь -> 100, нет ни роста ни падения -> нейтральные 50.
func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
