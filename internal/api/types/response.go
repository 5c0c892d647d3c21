// internal/api/types/response.go
package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"portfolio-tracker/internal/domain"
	"portfolio-tracker/internal/portfolio"
)

// MoneyPlaces is the number of decimal places derived figures are rounded to in responses.
const MoneyPlaces = 2

// UserResponse is the public view of an account.
type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// TokenResponse is returned by register and login.
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        UserResponse `json:"user"`
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// HoldingResponse is a stored holding plus its priced metrics.
type HoldingResponse struct {
	ID                   uuid.UUID       `json:"id"`
	UserID               uuid.UUID       `json:"user_id"`
	StockName            string          `json:"stock_name"`
	Quantity             decimal.Decimal `json:"quantity"`
	BuyPrice             decimal.Decimal `json:"buy_price"`
	CurrentPrice         decimal.Decimal `json:"current_price"`
	TotalInvested        decimal.Decimal `json:"total_invested"`
	CurrentValue         decimal.Decimal `json:"current_value"`
	ProfitLoss           decimal.Decimal `json:"profit_loss"`
	ProfitLossPercentage decimal.Decimal `json:"profit_loss_percentage"`
}

// SummaryResponse is the portfolio roll-up.
type SummaryResponse struct {
	TotalStocks               int               `json:"total_stocks"`
	TotalInvested             decimal.Decimal   `json:"total_invested"`
	TotalCurrentValue         decimal.Decimal   `json:"total_current_value"`
	TotalProfitLoss           decimal.Decimal   `json:"total_profit_loss"`
	TotalProfitLossPercentage decimal.Decimal   `json:"total_profit_loss_percentage"`
	Stocks                    []HoldingResponse `json:"stocks"`
}

// NewUserResponse builds the public view of u.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Email: u.Email}
}

// NewHoldingResponse renders a position; metrics are rounded here and nowhere earlier.
func NewHoldingResponse(p portfolio.Position) HoldingResponse {
	m := p.Metrics.Rounded(MoneyPlaces)
	return HoldingResponse{
		ID:                   p.Holding.ID,
		UserID:               p.Holding.UserID,
		StockName:            p.Holding.StockName,
		Quantity:             p.Holding.Quantity,
		BuyPrice:             p.Holding.BuyPrice,
		CurrentPrice:         p.CurrentPrice,
		TotalInvested:        m.Invested,
		CurrentValue:         m.CurrentValue,
		ProfitLoss:           m.ProfitLoss,
		ProfitLossPercentage: m.ProfitLossPct,
	}
}

// NewHoldingResponses renders positions in order. The result is never nil.
func NewHoldingResponses(positions []portfolio.Position) []HoldingResponse {
	out := make([]HoldingResponse, 0, len(positions))
	for _, p := range positions {
		out = append(out, NewHoldingResponse(p))
	}
	return out
}

// NewSummaryResponse renders s with totals rounded to MoneyPlaces.
func NewSummaryResponse(s portfolio.Summary) SummaryResponse {
	return SummaryResponse{
		TotalStocks:               s.TotalStocks,
		TotalInvested:             s.TotalInvested.Round(MoneyPlaces),
		TotalCurrentValue:         s.TotalCurrentValue.Round(MoneyPlaces),
		TotalProfitLoss:           s.TotalProfitLoss.Round(MoneyPlaces),
		TotalProfitLossPercentage: s.TotalProfitLossPct.Round(MoneyPlaces),
		Stocks:                    NewHoldingResponses(s.Positions),
	}
}
