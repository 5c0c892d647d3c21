// internal/repository/holding_repo.go
package repository

import (
	"context"

	"github.com/google/uuid"

	"portfolio-tracker/internal/domain"
)

// MaxHoldingsPerUser caps how many holdings a single list query returns.
const MaxHoldingsPerUser = 1000

// HoldingRepository defines the interface for holding data operations.
// Every lookup is scoped to the owning user; another user's holding is reported as not found.
type HoldingRepository interface {
	// CreateHolding inserts a new holding.
	CreateHolding(ctx context.Context, q DBExecutor, holding *domain.Holding) error
	// GetHoldingByID retrieves one of the user's holdings.
	GetHoldingByID(ctx context.Context, q DBExecutor, userID, id uuid.UUID) (*domain.Holding, error)
	// GetHoldingByIDForUpdate is GetHoldingByID with a row lock; q must be a transaction.
	GetHoldingByIDForUpdate(ctx context.Context, q DBExecutor, userID, id uuid.UUID) (*domain.Holding, error)
	// ListHoldingsByUserID returns the user's holdings in insertion order.
	ListHoldingsByUserID(ctx context.Context, q DBExecutor, userID uuid.UUID, limit int) ([]domain.Holding, error)
	// UpdateHolding persists name, quantity, buy price and updated_at.
	UpdateHolding(ctx context.Context, q DBExecutor, holding *domain.Holding) error
	// DeleteHolding removes one of the user's holdings.
	DeleteHolding(ctx context.Context, q DBExecutor, userID, id uuid.UUID) error
}
