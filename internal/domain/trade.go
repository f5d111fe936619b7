package domain

import (
	"time"
)

const (
	TradeStatusPending = "pending"
	TradeStatusFilled  = "filled"
	TradeStatusSettled = "settled"

	TradeSideBuy  = "buy"
	TradeSideSell = "sell"
)

// Trade is one version of an executed trade, from pending through fill to
// settlement.
type Trade struct {
	VersionRow
	Symbol      string     `json:"symbol" db:"symbol"`
	Side        string     `json:"side" db:"side"`
	Quantity    float64    `json:"quantity" db:"quantity"`
	Price       float64    `json:"price" db:"price"`
	Status      string     `json:"status" db:"status"`
	SettlePrice *float64   `json:"settle_price,omitempty" db:"settle_price"`
	SettledAt   *time.Time `json:"settled_at,omitempty" db:"settled_at"`
}

// Terminal reports whether this version is a settlement version.
func (t *Trade) Terminal() bool {
	return t.Status == TradeStatusSettled && t.SettlePrice != nil && t.SettledAt != nil
}

func ValidTradeSide(side string) bool {
	return side == TradeSideBuy || side == TradeSideSell
}
