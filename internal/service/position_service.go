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

type PositionService struct {
	positionRepo *repository.PositionRepository
	archiver     *archive.Archiver
	opTimeout    time.Duration
}

// NewPositionService wires the position version store. archiver may be nil
// when archival is not configured.
func NewPositionService(positionRepo *repository.PositionRepository, archiver *archive.Archiver, opTimeout time.Duration) *PositionService {
	return &PositionService{
		positionRepo: positionRepo,
		archiver:     archiver,
		opTimeout:    opTimeout,
	}
}

type OpenPositionInput struct {
	Symbol   string  `json:"symbol"`
	Side     string  `json:"side"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Strategy string  `json:"strategy"`
}

type AmendPositionInput struct {
	Quantity *float64 `json:"quantity,omitempty"`
	Price    *float64 `json:"price,omitempty"`
}

type ClosePositionInput struct {
	ExitPrice float64 `json:"exit_price"`
}

// Open creates a new position chain and returns its first version.
func (s *PositionService) Open(ctx context.Context, input OpenPositionInput) (*domain.Position, error) {
	if input.Symbol == "" {
		return nil, &domain.ValidationError{Entity: "position", Reason: "symbol is required"}
	}
	if !domain.ValidSide(input.Side) {
		return nil, &domain.ValidationError{Entity: "position", Reason: fmt.Sprintf("invalid side %q", input.Side)}
	}
	if input.Quantity <= 0 {
		return nil, &domain.ValidationError{Entity: "position", Reason: "quantity must be positive"}
	}
	if !validContractPrice(input.Price) {
		return nil, &domain.ValidationError{Entity: "position", Reason: "price must be within [0, 1]"}
	}
	if input.Strategy == "" {
		input.Strategy = domain.DefaultStrategy
	}

	pos := domain.Position{
		Symbol:     input.Symbol,
		Side:       input.Side,
		Quantity:   input.Quantity,
		EntryPrice: input.Price,
		Price:      input.Price,
		Strategy:   input.Strategy,
		Status:     domain.PositionStatusOpen,
	}

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	if _, _, err := s.positionRepo.Create(ctx, &pos); err != nil {
		return nil, fmt.Errorf("failed to open position: %w", err)
	}
	return &pos, nil
}

// Amend writes a new version with an updated mark price and/or quantity.
func (s *PositionService) Amend(ctx context.Context, businessID string, input AmendPositionInput) (int64, error) {
	if input.Quantity == nil && input.Price == nil {
		return 0, &domain.ValidationError{Entity: "position", BusinessID: businessID, Reason: "nothing to amend"}
	}
	if input.Quantity != nil && *input.Quantity <= 0 {
		return 0, &domain.ValidationError{Entity: "position", BusinessID: businessID, Reason: "quantity must be positive"}
	}
	if input.Price != nil && !validContractPrice(*input.Price) {
		return 0, &domain.ValidationError{Entity: "position", BusinessID: businessID, Reason: "price must be within [0, 1]"}
	}

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	return s.positionRepo.Update(ctx, businessID, func(p *domain.Position) error {
		if input.Quantity != nil {
			p.Quantity = *input.Quantity
		}
		if input.Price != nil {
			p.Price = *input.Price
		}
		return nil
	})
}

// Close writes the terminal version. Closing an already-closed position is
// a ValidationError from the store, never a silent no-op.
func (s *PositionService) Close(ctx context.Context, businessID string, input ClosePositionInput) (int64, error) {
	if !validContractPrice(input.ExitPrice) {
		return 0, &domain.ValidationError{Entity: "position", BusinessID: businessID, Reason: "exit price must be within [0, 1]"}
	}

	opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	surrogateID, err := s.positionRepo.Close(opCtx, businessID, func(p *domain.Position) error {
		now := time.Now().UTC()
		p.Status = domain.PositionStatusClosed
		p.ExitPrice = &input.ExitPrice
		p.Price = input.ExitPrice
		p.ClosedAt = &now
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.archiveChain(ctx, businessID)
	return surrogateID, nil
}

// archiveChain is best-effort: a failed upload must not fail the close whose
// transaction already committed.
func (s *PositionService) archiveChain(ctx context.Context, businessID string) {
	if s.archiver == nil {
		return
	}
	history, err := s.positionRepo.History(ctx, businessID)
	if err != nil {
		log.Printf("Failed to read position %s history for archival: %v", businessID, err)
		return
	}
	if err := s.archiver.ArchiveHistory(ctx, "position", businessID, history); err != nil {
		log.Printf("Failed to archive position %s: %v", businessID, err)
	}
}

func (s *PositionService) Current(ctx context.Context, businessID string) (*domain.Position, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	return s.positionRepo.Current(ctx, businessID)
}

func (s *PositionService) History(ctx context.Context, businessID string) ([]domain.Position, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	return s.positionRepo.History(ctx, businessID)
}

func (s *PositionService) At(ctx context.Context, businessID string, t time.Time) (*domain.Position, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	return s.positionRepo.PointInTime(ctx, businessID, t)
}

// validContractPrice bounds prediction-market contract prices.
func validContractPrice(p float64) bool {
	return p >= 0 && p <= 1
}
