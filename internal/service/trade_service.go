package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"tradevault/internal/archive"
	"tradevault/internal/domain"
	"tradevault/internal/repository"
)

type TradeService struct {
	tradeRepo *repository.TradeRepository
	archiver  *archive.Archiver
	opTimeout time.Duration
}

func NewTradeService(tradeRepo *repository.TradeRepository, archiver *archive.Archiver, opTimeout time.Duration) *TradeService {
	return &TradeService{
		tradeRepo: tradeRepo,
		archiver:  archiver,
		opTimeout: opTimeout,
	}
}

type RecordTradeInput struct {
	Symbol   string  `json:"symbol"`
	Side     string  `json:"side"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}

type SettleTradeInput struct {
	SettlePrice float64 `json:"settle_price"`
}

// Record creates a new trade chain in pending state.
func (s *TradeService) Record(ctx context.Context, input RecordTradeInput) (*domain.Trade, error) {
	if input.Symbol == "" {
		return nil, &domain.ValidationError{Entity: "trade", Reason: "symbol is required"}
	}
	if !domain.ValidTradeSide(input.Side) {
		return nil, &domain.ValidationError{Entity: "trade", Reason: fmt.Sprintf("invalid side %q", input.Side)}
	}
	if input.Quantity <= 0 {
		return nil, &domain.ValidationError{Entity: "trade", Reason: "quantity must be positive"}
	}
	if !validContractPrice(input.Price) {
		return nil, &domain.ValidationError{Entity: "trade", Reason: "price must be within [0, 1]"}
	}

	trade := domain.Trade{
		Symbol:   input.Symbol,
		Side:     input.Side,
		Quantity: input.Quantity,
		Price:    input.Price,
		Status:   domain.TradeStatusPending,
	}

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	if _, _, err := s.tradeRepo.Create(ctx, &trade); err != nil {
		return nil, fmt.Errorf("failed to record trade: %w", err)
	}
	return &trade, nil
}

// Fill transitions a pending trade to filled.
func (s *TradeService) Fill(ctx context.Context, businessID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	return s.tradeRepo.Update(ctx, businessID, func(t *domain.Trade) error {
		if t.Status != domain.TradeStatusPending {
			return &domain.ValidationError{
				Entity:     "trade",
				BusinessID: businessID,
				Reason:     fmt.Sprintf("cannot fill a %s trade", t.Status),
			}
		}
		t.Status = domain.TradeStatusFilled
		return nil
	})
}

// Settle writes the terminal version of a filled trade.
func (s *TradeService) Settle(ctx context.Context, businessID string, input SettleTradeInput) (int64, error) {
	if !validContractPrice(input.SettlePrice) {
		return 0, &domain.ValidationError{Entity: "trade", BusinessID: businessID, Reason: "settle price must be within [0, 1]"}
	}

	opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	surrogateID, err := s.tradeRepo.Close(opCtx, businessID, func(t *domain.Trade) error {
		if t.Status != domain.TradeStatusFilled {
			return &domain.ValidationError{
				Entity:     "trade",
				BusinessID: businessID,
				Reason:     fmt.Sprintf("cannot settle a %s trade", t.Status),
			}
		}
		now := time.Now().UTC()
		t.Status = domain.TradeStatusSettled
		t.SettlePrice = &input.SettlePrice
		t.SettledAt = &now
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.archiveChain(ctx, businessID)
	return surrogateID, nil
}

func (s *TradeService) archiveChain(ctx context.Context, businessID string) {
	if s.archiver == nil {
		return
	}
	history, err := s.tradeRepo.History(ctx, businessID)
	if err != nil {
		log.Printf("Failed to read trade %s history for archival: %v", businessID, err)
		return
	}
	if err := s.archiver.ArchiveHistory(ctx, "trade", businessID, history); err != nil {
		log.Printf("Failed to archive trade %s: %v", businessID, err)
	}
}

func (s *TradeService) Current(ctx context.Context, businessID string) (*domain.Trade, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	return s.tradeRepo.Current(ctx, businessID)
}

func (s *TradeService) History(ctx context.Context, businessID string) ([]domain.Trade, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	return s.tradeRepo.History(ctx, businessID)
}

func (s *TradeService) At(ctx context.Context, businessID string, t time.Time) (*domain.Trade, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	return s.tradeRepo.PointInTime(ctx, businessID, t)
}
