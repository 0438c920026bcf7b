package signal

import (
	"fmt"

	"signal_bot/internal/indicators"
	"signal_bot/internal/models"
)

// Indicators — расчёт снапшотов по серии (indicators.Engine).
type Indicators interface {
	Compute(series models.CandleSeries) ([]models.Snapshot, error)
}

// Evaluator: серия свечей -> индикаторы -> голоса -> сигнал.
type Evaluator struct {
	ind Indicators
}

func NewEvaluator(ind Indicators) *Evaluator {
	return &Evaluator{ind: ind}
}

// Evaluate считает сигнал по двум последним снапшотам серии.
// Меньше двух снапшотов — indicators.ErrInsufficientHistory.
func (e *Evaluator) Evaluate(series models.CandleSeries) (models.Signal, models.VoteSet, error) {
	snaps, err := e.ind.Compute(series)
	if err != nil {
		return models.Signal{}, models.VoteSet{}, err
	}
	if len(snaps) < 2 {
		return models.Signal{}, models.VoteSet{}, fmt.Errorf("%s: %d snapshot(s), need 2: %w",
			series.Asset, len(snaps), indicators.ErrInsufficientHistory)
	}

	prev, curr := snaps[len(snaps)-2], snaps[len(snaps)-1]
	votes := Detect(prev, curr)
	return Aggregate(series.Asset, votes, curr), votes, nil
}
