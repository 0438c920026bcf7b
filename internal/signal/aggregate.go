package signal

import "signal_bot/internal/models"

// Confirmations — минимум голосов для направленного сигнала.
const Confirmations = 3

// Tally применяет подтверждение объёмом: +1 голос той стороне, у которой голоса уже есть.
// С нуля голос не появляется; если голоса есть у обеих сторон, объём не учитывается.
func Tally(v models.VoteSet) (buy, sell int, boosted bool) {
	buy, sell = v.Count()
	if !v.HighVolume {
		return buy, sell, false
	}
	switch {
	case buy > 0 && sell == 0:
		return buy + 1, sell, true
	case sell > 0 && buy == 0:
		return buy, sell + 1, true
	default:
		return buy, sell, false
	}
}

// Aggregate: BUY при >= 3 голосах за покупку, иначе SELL при >= 3 за продажу, иначе HOLD.
// Если порог набран обеими сторонами, побеждает BUY.
func Aggregate(asset string, v models.VoteSet, snap models.Snapshot) models.Signal {
	buy, sell, boosted := Tally(v)

	side := models.SideHold
	switch {
	case buy >= Confirmations:
		side = models.SideBuy
	case sell >= Confirmations:
		side = models.SideSell
	}

	return models.Signal{
		Asset:     asset,
		Side:      side,
		Snapshot:  snap,
		BuyVotes:  buy,
		SellVotes: sell,
		Boosted:   boosted && side != models.SideHold,
	}
}
