package domain

import (
	"time"
)

const (
	PositionStatusOpen   = "open"
	PositionStatusClosed = "closed"

	SideLong  = "long"
	SideShort = "short"

	DefaultStrategy = "manual"
)

// Position is one version of a trading position. Prices are probabilities
// in [0, 1] for prediction-market contracts.
type Position struct {
	VersionRow
	Symbol     string     `json:"symbol" db:"symbol"`
	Side       string     `json:"side" db:"side"`
	Quantity   float64    `json:"quantity" db:"quantity"`
	EntryPrice float64    `json:"entry_price" db:"entry_price"`
	Price      float64    `json:"price" db:"price"`
	Strategy   string     `json:"strategy" db:"strategy"`
	Status     string     `json:"status" db:"status"`
	ExitPrice  *float64   `json:"exit_price,omitempty" db:"exit_price"`
	ClosedAt   *time.Time `json:"closed_at,omitempty" db:"closed_at"`
}

// Terminal reports whether this version is a closing version. A terminal
// current row accepts no further transitions.
func (p *Position) Terminal() bool {
	return p.Status == PositionStatusClosed && p.ExitPrice != nil && p.ClosedAt != nil
}

func ValidSide(side string) bool {
	return side == SideLong || side == SideShort
}
