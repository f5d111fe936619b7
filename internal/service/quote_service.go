package service

import (
	"context"
	"fmt"
	"time"

	"tradevault/internal/domain"
	"tradevault/internal/repository"
)

type QuoteService struct {
	quoteRepo *repository.QuoteRepository
	opTimeout time.Duration
}

func NewQuoteService(quoteRepo *repository.QuoteRepository, opTimeout time.Duration) *QuoteService {
	return &QuoteService{
		quoteRepo: quoteRepo,
		opTimeout: opTimeout,
	}
}

type PublishQuoteInput struct {
	Symbol string  `json:"symbol"`
	Bid    float64 `json:"bid"`
	Ask    float64 `json:"ask"`
	Source string  `json:"source"`
}

type ReviseQuoteInput struct {
	Bid float64 `json:"bid"`
	Ask float64 `json:"ask"`
}

func validateSpread(bid, ask float64) error {
	if !validContractPrice(bid) || !validContractPrice(ask) {
		return &domain.ValidationError{Entity: "quote", Reason: "bid and ask must be within [0, 1]"}
	}
	if bid > ask {
		return &domain.ValidationError{Entity: "quote", Reason: "bid must not exceed ask"}
	}
	return nil
}

// Publish creates a new quote chain.
func (s *QuoteService) Publish(ctx context.Context, input PublishQuoteInput) (*domain.Quote, error) {
	if input.Symbol == "" {
		return nil, &domain.ValidationError{Entity: "quote", Reason: "symbol is required"}
	}
	if input.Source == "" {
		return nil, &domain.ValidationError{Entity: "quote", Reason: "source is required"}
	}
	if err := validateSpread(input.Bid, input.Ask); err != nil {
		return nil, err
	}

	quote := domain.Quote{
		Symbol: input.Symbol,
		Bid:    input.Bid,
		Ask:    input.Ask,
		Source: input.Source,
	}

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	if _, _, err := s.quoteRepo.Create(ctx, &quote); err != nil {
		return nil, fmt.Errorf("failed to publish quote: %w", err)
	}
	return &quote, nil
}

// Revise supersedes the current quote with new levels.
func (s *QuoteService) Revise(ctx context.Context, businessID string, input ReviseQuoteInput) (int64, error) {
	if err := validateSpread(input.Bid, input.Ask); err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	return s.quoteRepo.Update(ctx, businessID, func(q *domain.Quote) error {
		q.Bid = input.Bid
		q.Ask = input.Ask
		return nil
	})
}

func (s *QuoteService) Current(ctx context.Context, businessID string) (*domain.Quote, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	return s.quoteRepo.Current(ctx, businessID)
}

func (s *QuoteService) History(ctx context.Context, businessID string) ([]domain.Quote, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	return s.quoteRepo.History(ctx, businessID)
}

func (s *QuoteService) At(ctx context.Context, businessID string, t time.Time) (*domain.Quote, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	return s.quoteRepo.PointInTime(ctx, businessID, t)
}
