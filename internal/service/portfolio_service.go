// internal/service/portfolio_service.go
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"portfolio-tracker/internal/domain"
	"portfolio-tracker/internal/portfolio"
	"portfolio-tracker/internal/repository"
	"portfolio-tracker/internal/util"
	"portfolio-tracker/pkg/db"
)

// PortfolioService defines the interface for holding-related business logic.
// Every read is priced at call time; stored holdings never carry a current price.
type PortfolioService interface {
	AddHolding(ctx context.Context, userID uuid.UUID, stockName string, quantity, buyPrice decimal.Decimal) (*portfolio.Position, error)
	ListHoldings(ctx context.Context, userID uuid.UUID) ([]portfolio.Position, error)
	GetHolding(ctx context.Context, userID, holdingID uuid.UUID) (*portfolio.Position, error)
	UpdateHolding(ctx context.Context, userID, holdingID uuid.UUID, patch domain.HoldingPatch) (*portfolio.Position, error)
	DeleteHolding(ctx context.Context, userID, holdingID uuid.UUID) error
	Summary(ctx context.Context, userID uuid.UUID) (*portfolio.Summary, error)
}

// portfolioService implements the PortfolioService interface.
type portfolioService struct {
	dbBeginner  db.DBTxBeginner
	dbExecutor  repository.DBExecutor
	holdingRepo repository.HoldingRepository
	pricer      portfolio.Pricer
	beginTx     db.BeginTxFunc
	commitTx    db.CommitTxFunc
	rollbackTx  db.RollbackTxFunc
}

// NewPortfolioService creates a new instance of PortfolioService.
func NewPortfolioService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	holdingRepo repository.HoldingRepository,
	pricer portfolio.Pricer,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) PortfolioService {
	return &portfolioService{
		dbBeginner:  dbBeginner,
		dbExecutor:  dbExecutor,
		holdingRepo: holdingRepo,
		pricer:      pricer,
		beginTx:     beginTx,
		commitTx:    commitTx,
		rollbackTx:  rollbackTx,
	}
}

// AddHolding records a new position for the user.
func (s *portfolioService) AddHolding(ctx context.Context, userID uuid.UUID, stockName string, quantity, buyPrice decimal.Decimal) (*portfolio.Position, error) {
	holding := domain.NewHolding(userID, stockName, quantity, buyPrice)
	if err := holding.Validate(); err != nil {
		return nil, err
	}

	if err := s.holdingRepo.CreateHolding(ctx, s.dbExecutor, holding); err != nil {
		return nil, fmt.Errorf("add holding: %w", err)
	}

	pos := portfolio.Valuate(*holding, s.pricer)
	return &pos, nil
}

// ListHoldings returns the user's priced holdings in insertion order.
func (s *portfolioService) ListHoldings(ctx context.Context, userID uuid.UUID) ([]portfolio.Position, error) {
	holdings, err := s.holdingRepo.ListHoldingsByUserID(ctx, s.dbExecutor, userID, repository.MaxHoldingsPerUser)
	if err != nil {
		return nil, fmt.Errorf("list holdings: %w", err)
	}

	positions := make([]portfolio.Position, 0, len(holdings))
	for _, h := range holdings {
		positions = append(positions, portfolio.Valuate(h, s.pricer))
	}
	return positions, nil
}

// GetHolding returns one of the user's holdings, priced.
func (s *portfolioService) GetHolding(ctx context.Context, userID, holdingID uuid.UUID) (*portfolio.Position, error) {
	holding, err := s.holdingRepo.GetHoldingByID(ctx, s.dbExecutor, userID, holdingID)
	if err != nil {
		return nil, holdingError("get holding", holdingID, err)
	}

	pos := portfolio.Valuate(*holding, s.pricer)
	return &pos, nil
}

// UpdateHolding applies a partial update under a row lock and returns the re-priced holding.
func (s *portfolioService) UpdateHolding(ctx context.Context, userID, holdingID uuid.UUID, patch domain.HoldingPatch) (*portfolio.Position, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("update holding: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("update holding: transaction controller does not implement DBExecutor")
	}

	holding, err := s.holdingRepo.GetHoldingByIDForUpdate(ctx, txExecutor, userID, holdingID)
	if err != nil {
		return nil, holdingError("update holding", holdingID, err)
	}

	holding.Apply(patch)
	if err := holding.Validate(); err != nil {
		return nil, err
	}

	if err := s.holdingRepo.UpdateHolding(ctx, txExecutor, holding); err != nil {
		return nil, holdingError("update holding", holdingID, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("update holding: failed to commit transaction: %w", err)
	}

	pos := portfolio.Valuate(*holding, s.pricer)
	return &pos, nil
}

// DeleteHolding removes one of the user's holdings.
func (s *portfolioService) DeleteHolding(ctx context.Context, userID, holdingID uuid.UUID) error {
	if err := s.holdingRepo.DeleteHolding(ctx, s.dbExecutor, userID, holdingID); err != nil {
		return holdingError("delete holding", holdingID, err)
	}
	return nil
}

// Summary prices every holding of the user and folds them into portfolio totals.
func (s *portfolioService) Summary(ctx context.Context, userID uuid.UUID) (*portfolio.Summary, error) {
	holdings, err := s.holdingRepo.ListHoldingsByUserID(ctx, s.dbExecutor, userID, repository.MaxHoldingsPerUser)
	if err != nil {
		return nil, fmt.Errorf("portfolio summary: %w", err)
	}

	summary := portfolio.Aggregate(holdings, s.pricer)
	return &summary, nil
}

// holdingError turns a repository miss into ErrHoldingNotFound.
func holdingError(op string, id uuid.UUID, err error) error {
	if util.IsError(err, util.ErrNotFound) {
		return util.ErrHoldingNotFound
	}
	return fmt.Errorf("%s %s: %w", op, id, err)
}
