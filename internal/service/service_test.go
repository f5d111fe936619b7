package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradevault/internal/domain"
)

// Input validation runs before any repository call, so these tests exercise
// it without a database.

func TestPositionService_OpenValidation(t *testing.T) {
	s := NewPositionService(nil, nil, time.Second)
	ctx := context.Background()

	tests := []struct {
		name   string
		input  OpenPositionInput
		reason string
	}{
		{"missing symbol", OpenPositionInput{Side: domain.SideLong, Quantity: 1, Price: 0.5}, "symbol is required"},
		{"bad side", OpenPositionInput{Symbol: "ELEC-2028", Side: "buy", Quantity: 1, Price: 0.5}, "invalid side"},
		{"zero quantity", OpenPositionInput{Symbol: "ELEC-2028", Side: domain.SideLong, Price: 0.5}, "quantity must be positive"},
		{"price above one", OpenPositionInput{Symbol: "ELEC-2028", Side: domain.SideLong, Quantity: 1, Price: 1.5}, "price must be within"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Open(ctx, tt.input)
			var validation *domain.ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Contains(t, validation.Reason, tt.reason)
		})
	}
}

func TestPositionService_AmendValidation(t *testing.T) {
	s := NewPositionService(nil, nil, time.Second)
	ctx := context.Background()

	_, err := s.Amend(ctx, "POS-1", AmendPositionInput{})
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Reason, "nothing to amend")

	bad := -1.0
	_, err = s.Amend(ctx, "POS-1", AmendPositionInput{Quantity: &bad})
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Reason, "quantity must be positive")
}

func TestPositionService_CloseValidation(t *testing.T) {
	s := NewPositionService(nil, nil, time.Second)

	_, err := s.Close(context.Background(), "POS-1", ClosePositionInput{ExitPrice: 2})
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Reason, "exit price must be within")
}

func TestQuoteService_PublishValidation(t *testing.T) {
	s := NewQuoteService(nil, time.Second)
	ctx := context.Background()

	var validation *domain.ValidationError

	_, err := s.Publish(ctx, PublishQuoteInput{Bid: 0.4, Ask: 0.5, Source: "amm"})
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Reason, "symbol is required")

	_, err = s.Publish(ctx, PublishQuoteInput{Symbol: "ELEC-2028", Bid: 0.6, Ask: 0.5, Source: "amm"})
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Reason, "bid must not exceed ask")

	_, err = s.Publish(ctx, PublishQuoteInput{Symbol: "ELEC-2028", Bid: 0.4, Ask: 0.5})
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Reason, "source is required")
}

func TestTradeService_RecordValidation(t *testing.T) {
	s := NewTradeService(nil, nil, time.Second)
	ctx := context.Background()

	var validation *domain.ValidationError

	_, err := s.Record(ctx, RecordTradeInput{Side: domain.TradeSideBuy, Quantity: 1, Price: 0.5})
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Reason, "symbol is required")

	_, err = s.Record(ctx, RecordTradeInput{Symbol: "ELEC-2028", Side: "long", Quantity: 1, Price: 0.5})
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Reason, "invalid side")

	_, err = s.Settle(ctx, "TRD-1", SettleTradeInput{SettlePrice: -0.1})
	require.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Reason, "settle price must be within")
}
