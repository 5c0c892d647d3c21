package portfolio

import (
	"github.com/shopspring/decimal"

	"portfolio-tracker/internal/domain"
)

// Pricer supplies the current price of an instrument given its reference price.
// Implementations must be safe for concurrent use.
type Pricer interface {
	Price(instrument string, ref decimal.Decimal) decimal.Decimal
}

// PricerFunc adapts a function to Pricer.
type PricerFunc func(instrument string, ref decimal.Decimal) decimal.Decimal

// Price calls f.
func (f PricerFunc) Price(instrument string, ref decimal.Decimal) decimal.Decimal {
	return f(instrument, ref)
}

// Position is a holding together with its derived current price and metrics.
type Position struct {
	Holding      domain.Holding
	CurrentPrice decimal.Decimal
	Metrics      Metrics
}

// Summary totals a user's positions. Positions keep the store's order.
type Summary struct {
	TotalStocks        int
	TotalInvested      decimal.Decimal
	TotalCurrentValue  decimal.Decimal
	TotalProfitLoss    decimal.Decimal
	TotalProfitLossPct decimal.Decimal
	Positions          []Position
}

// Valuate prices a single holding.
func Valuate(h domain.Holding, p Pricer) Position {
	current := p.Price(h.StockName, h.BuyPrice)
	return Position{
		Holding:      h,
		CurrentPrice: current,
		Metrics:      ComputeMetrics(h.Quantity, h.BuyPrice, current),
	}
}

// Aggregate values every holding and sums the results. An empty slice yields
// a zero summary with a non-nil, empty Positions slice.
func Aggregate(holdings []domain.Holding, p Pricer) Summary {
	s := Summary{
		TotalInvested:      decimal.Zero,
		TotalCurrentValue:  decimal.Zero,
		TotalProfitLoss:    decimal.Zero,
		TotalProfitLossPct: decimal.Zero,
		Positions:          make([]Position, 0, len(holdings)),
	}
	for _, h := range holdings {
		pos := Valuate(h, p)
		s.Positions = append(s.Positions, pos)
		s.TotalInvested = s.TotalInvested.Add(pos.Metrics.Invested)
		s.TotalCurrentValue = s.TotalCurrentValue.Add(pos.Metrics.CurrentValue)
		s.TotalProfitLoss = s.TotalProfitLoss.Add(pos.Metrics.ProfitLoss)
	}
	s.TotalStocks = len(s.Positions)
	s.TotalProfitLossPct = percentOf(s.TotalProfitLoss, s.TotalInvested)
	return s
}
