package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPosition_Terminal(t *testing.T) {
	exit := 0.60
	now := time.Now().UTC()

	tests := []struct {
		name string
		pos  Position
		want bool
	}{
		{"open", Position{Status: PositionStatusOpen}, false},
		{"closed without exit fields", Position{Status: PositionStatusClosed}, false},
		{"closed without timestamp", Position{Status: PositionStatusClosed, ExitPrice: &exit}, false},
		{"fully closed", Position{Status: PositionStatusClosed, ExitPrice: &exit, ClosedAt: &now}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pos.Terminal())
		})
	}
}

func TestTrade_Terminal(t *testing.T) {
	settle := 0.55
	now := time.Now().UTC()

	assert.False(t, (&Trade{Status: TradeStatusPending}).Terminal())
	assert.False(t, (&Trade{Status: TradeStatusFilled}).Terminal())
	assert.False(t, (&Trade{Status: TradeStatusSettled}).Terminal(), "settled without settle fields is not terminal")
	assert.True(t, (&Trade{Status: TradeStatusSettled, SettlePrice: &settle, SettledAt: &now}).Terminal())
}

func TestQuote_Mid(t *testing.T) {
	q := Quote{Bid: 0.40, Ask: 0.50}
	assert.InDelta(t, 0.45, q.Mid(), 1e-9)
}

func TestValidSide(t *testing.T) {
	assert.True(t, ValidSide(SideLong))
	assert.True(t, ValidSide(SideShort))
	assert.False(t, ValidSide("buy"))
	assert.False(t, ValidSide(""))

	assert.True(t, ValidTradeSide(TradeSideBuy))
	assert.True(t, ValidTradeSide(TradeSideSell))
	assert.False(t, ValidTradeSide("long"))
}
