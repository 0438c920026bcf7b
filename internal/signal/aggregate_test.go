package signal

import (
	"testing"

	"signal_bot/internal/models"
)

func votes(buy, sell int, high bool) models.VoteSet {
	slots := make([]models.Vote, 6)
	i := 0
	for ; i < buy; i++ {
		slots[i] = models.VoteBuy
	}
	for j := 0; j < sell; j++ {
		slots[i+j] = models.VoteSell
	}
	return models.VoteSet{
		RSI: slots[0], MACD: slots[1], Bollinger: slots[2],
		SMACross: slots[3], EMACross: slots[4], Stochastic: slots[5],
		HighVolume: high,
	}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name      string
		v         models.VoteSet
		side      models.Side
		buy, sell int
		boosted   bool
	}{
		{"three buys", votes(3, 0, false), models.SideBuy, 3, 0, false},
		{"two buys", votes(2, 0, false), models.SideHold, 2, 0, false},
		{"three sells", votes(0, 3, false), models.SideSell, 0, 3, false},
		{"two sells", votes(0, 2, false), models.SideHold, 0, 2, false},
		{"tie three each", votes(3, 3, false), models.SideBuy, 3, 3, false},
		{"two buys plus volume", votes(2, 0, true), models.SideBuy, 3, 0, true},
		{"two sells plus volume", votes(0, 2, true), models.SideSell, 0, 3, true},
		{"volume alone", votes(0, 0, true), models.SideHold, 0, 0, false},
		{"one buy plus volume", votes(1, 0, true), models.SideHold, 2, 0, false},
		{"contradictory with volume", votes(2, 2, true), models.SideHold, 2, 2, false},
		{"three buys two sells with volume", votes(3, 2, true), models.SideBuy, 3, 2, false},
		{"nothing", votes(0, 0, false), models.SideHold, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := models.Snapshot{Price: 42}
			sig := Aggregate("bitcoin", tt.v, snap)
			if sig.Side != tt.side {
				t.Errorf("side %q, want %q", sig.Side, tt.side)
			}
			if sig.BuyVotes != tt.buy || sig.SellVotes != tt.sell {
				t.Errorf("votes %d/%d, want %d/%d", sig.BuyVotes, sig.SellVotes, tt.buy, tt.sell)
			}
			if sig.Boosted != tt.boosted {
				t.Errorf("boosted %v, want %v", sig.Boosted, tt.boosted)
			}
			if sig.Asset != "bitcoin" || sig.Snapshot.Price != 42 {
				t.Errorf("asset/snapshot not carried: %+v", sig)
			}
		})
	}
}
