// internal/domain/holding.go
package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"portfolio-tracker/internal/util"
)

// MaxStockNameLength bounds the free-text instrument symbol.
const MaxStockNameLength = 100

// Amount limits match the NUMERIC(24,8) storage of quantity and buy_price.
const (
	AmountScale     = 8
	AmountIntDigits = 16
	// maxAmountDigits caps the coefficient so comparisons never work on huge integers.
	maxAmountDigits = 64
)

// Holding is a user's recorded position in one instrument.
// Only the stored facts live here; the current price is always derived at read time.
type Holding struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	UserID    uuid.UUID       `db:"user_id" json:"user_id"`
	StockName string          `db:"stock_name" json:"stock_name"`
	Quantity  decimal.Decimal `db:"quantity" json:"quantity"`
	BuyPrice  decimal.Decimal `db:"buy_price" json:"buy_price"` // reference price
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// NewHolding creates a new Holding owned by userID. Call Validate before persisting.
func NewHolding(userID uuid.UUID, stockName string, quantity, buyPrice decimal.Decimal) *Holding {
	now := time.Now().UTC()
	return &Holding{
		ID:        uuid.New(),
		UserID:    userID,
		StockName: strings.TrimSpace(stockName),
		Quantity:  quantity,
		BuyPrice:  buyPrice,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate enforces the holding invariant: a non-empty name and strictly
// positive quantity and buy price that the store holds exactly.
func (h *Holding) Validate() error {
	n := utf8.RuneCountInString(h.StockName)
	if n == 0 || n > MaxStockNameLength {
		return fmt.Errorf("%w: stock_name must be 1-%d characters", util.ErrValidation, MaxStockNameLength)
	}
	if err := validateAmount("quantity", h.Quantity); err != nil {
		return err
	}
	return validateAmount("buy_price", h.BuyPrice)
}

// validateAmount accepts d when 0 < d < 10^AmountIntDigits with at most AmountScale
// decimal places. Range checks use digit counts only, so a value like 1e30000000
// is rejected without ever being expanded.
func validateAmount(field string, d decimal.Decimal) error {
	if !d.IsPositive() {
		return fmt.Errorf("%w: %s must be greater than 0", util.ErrValidation, field)
	}
	digits := int64(d.NumDigits())
	if digits > maxAmountDigits {
		return fmt.Errorf("%w: %s has too many digits", util.ErrValidation, field)
	}
	// The leading digit sits at 10^(digits+exp-1).
	magnitude := digits + int64(d.Exponent())
	if magnitude > AmountIntDigits {
		return fmt.Errorf("%w: %s must be less than 1e%d", util.ErrValidation, field, AmountIntDigits)
	}
	if magnitude <= -AmountScale || (d.Exponent() < -AmountScale && !d.Equal(d.Truncate(AmountScale))) {
		return fmt.Errorf("%w: %s must have at most %d decimal places", util.ErrValidation, field, AmountScale)
	}
	return nil
}

// HoldingPatch is a partial update; nil fields are left untouched.
type HoldingPatch struct {
	StockName *string          `json:"stock_name"`
	Quantity  *decimal.Decimal `json:"quantity"`
	BuyPrice  *decimal.Decimal `json:"buy_price"`
}

// Apply copies the set fields of p onto h and bumps UpdatedAt.
// The result must be re-validated by the caller.
func (h *Holding) Apply(p HoldingPatch) {
	if p.StockName != nil {
		h.StockName = strings.TrimSpace(*p.StockName)
	}
	if p.Quantity != nil {
		h.Quantity = *p.Quantity
	}
	if p.BuyPrice != nil {
		h.BuyPrice = *p.BuyPrice
	}
	h.UpdatedAt = time.Now().UTC()
}
