package models

import (
	"time"

	"github.com/google/uuid"
)

// Alert — отправленный сигнал, уходит в live-ленту.
type Alert struct {
	ID        string    `json:"id"`
	ChatID    int64     `json:"chat_id"`
	Asset     string    `json:"asset"`
	Side      Side      `json:"side"`
	Price     float64   `json:"price"`
	BuyVotes  int       `json:"buy_votes"`
	SellVotes int       `json:"sell_votes"`
	Snapshot  Snapshot  `json:"snapshot"`
	Text      string    `json:"text"`
	Time      time.Time `json:"time"`
}

func NewAlert(chatID int64, sig Signal, text string, now time.Time) Alert {
	return Alert{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		Asset:     sig.Asset,
		Side:      sig.Side,
		Price:     sig.Snapshot.Price,
		BuyVotes:  sig.BuyVotes,
		SellVotes: sig.SellVotes,
		Snapshot:  sig.Snapshot,
		Text:      text,
		Time:      now,
	}
}
