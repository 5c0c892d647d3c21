// internal/repository/postgres/holding_pg.go
package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"portfolio-tracker/internal/domain"
	"portfolio-tracker/internal/repository"
	"portfolio-tracker/internal/util"
)

const holdingColumns = `id, user_id, stock_name, quantity, buy_price, created_at, updated_at`

// HoldingRepository implements repository.HoldingRepository for PostgreSQL.
type HoldingRepository struct{}

// NewHoldingRepository creates a new HoldingRepository.
func NewHoldingRepository() repository.HoldingRepository {
	return &HoldingRepository{}
}

// CreateHolding inserts a new holding into the database using the provided DBExecutor.
func (r *HoldingRepository) CreateHolding(ctx context.Context, q repository.DBExecutor, h *domain.Holding) error {
	query := `INSERT INTO holdings (id, user_id, stock_name, quantity, buy_price, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := q.ExecContext(ctx, query, h.ID, h.UserID, h.StockName, h.Quantity, h.BuyPrice, h.CreatedAt, h.UpdatedAt)
	if err != nil {
		return mapError(err, "failed to create holding")
	}
	return nil
}

// GetHoldingByID retrieves a holding owned by userID.
func (r *HoldingRepository) GetHoldingByID(ctx context.Context, q repository.DBExecutor, userID, id uuid.UUID) (*domain.Holding, error) {
	return r.get(ctx, q, userID, id, "")
}

// GetHoldingByIDForUpdate retrieves a holding owned by userID and locks its row until the transaction ends.
func (r *HoldingRepository) GetHoldingByIDForUpdate(ctx context.Context, q repository.DBExecutor, userID, id uuid.UUID) (*domain.Holding, error) {
	return r.get(ctx, q, userID, id, " FOR UPDATE")
}

func (r *HoldingRepository) get(ctx context.Context, q repository.DBExecutor, userID, id uuid.UUID, lock string) (*domain.Holding, error) {
	var h domain.Holding
	query := `SELECT ` + holdingColumns + ` FROM holdings WHERE id = $1 AND user_id = $2` + lock
	if err := q.GetContext(ctx, &h, query, id, userID); err != nil {
		return nil, mapError(err, "failed to get holding %s", id)
	}
	return &h, nil
}

// ListHoldingsByUserID retrieves up to limit holdings for a user, oldest first.
func (r *HoldingRepository) ListHoldingsByUserID(ctx context.Context, q repository.DBExecutor, userID uuid.UUID, limit int) ([]domain.Holding, error) {
	holdings := []domain.Holding{}
	query := `
		SELECT ` + holdingColumns + `
		FROM holdings
		WHERE user_id = $1
		ORDER BY created_at, id
		LIMIT $2`
	if err := q.SelectContext(ctx, &holdings, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to fetch holdings for user %s: %w", userID, err)
	}
	return holdings, nil
}

// UpdateHolding writes the mutable fields of a holding using the provided DBExecutor.
func (r *HoldingRepository) UpdateHolding(ctx context.Context, q repository.DBExecutor, h *domain.Holding) error {
	query := `UPDATE holdings SET stock_name = $1, quantity = $2, buy_price = $3, updated_at = $4
              WHERE id = $5 AND user_id = $6`
	result, err := q.ExecContext(ctx, query, h.StockName, h.Quantity, h.BuyPrice, h.UpdatedAt, h.ID, h.UserID)
	if err != nil {
		return mapError(err, "failed to update holding %s", h.ID)
	}
	return expectOneRow(result.RowsAffected, "update holding", h.ID)
}

// DeleteHolding removes a holding owned by userID.
func (r *HoldingRepository) DeleteHolding(ctx context.Context, q repository.DBExecutor, userID, id uuid.UUID) error {
	result, err := q.ExecContext(ctx, `DELETE FROM holdings WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return mapError(err, "failed to delete holding %s", id)
	}
	return expectOneRow(result.RowsAffected, "delete holding", id)
}

func expectOneRow(rowsAffected func() (int64, error), op string, id uuid.UUID) error {
	n, err := rowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after %s %s: %w", op, id, err)
	}
	if n == 0 {
		return util.ErrNotFound
	}
	return nil
}
