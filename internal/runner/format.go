package runner

import (
	"fmt"
	"strings"

	"signal_bot/internal/models"
)

// FormatAlert — текст алерта для чата. HOLD в чат не уходит, но для логов тоже форматируется.
func FormatAlert(sig models.Signal) string {
	s := sig.Snapshot
	coin := strings.ToUpper(sig.Asset)

	if !sig.Side.Directional() {
		return fmt.Sprintf("HOLD %s at $%.2f - No strong signal (Buy: %d, Sell: %d)",
			coin, s.Price, sig.BuyVotes, sig.SellVotes)
	}

	est := ""
	if s.VolumeEstimated {
		est = " (est.)"
	}
	return fmt.Sprintf("%s %s at $%.2f - RSI: %.2f, MACD: %.2f/%.2f, "+
		"SMA10: %.2f/%.2f, EMA10: %.2f/%.2f, "+
		"BB: %.2f/%.2f, Stoch: %.2f, Vol: %.2f/%.2f%s (Buy: %d, Sell: %d)",
		sig.Side, coin, s.Price,
		s.RSI, s.MACD, s.MACDSignal,
		s.SMA10, s.SMA50, s.EMA10, s.EMA50,
		s.BBLower, s.BBUpper, s.StochK, s.Volume, s.VolumeSMA, est,
		sig.BuyVotes, sig.SellVotes,
	)
}

const emptyWatchlistText = "Your watchlist is empty. Use /add to add coins."
