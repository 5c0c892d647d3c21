// Package portfolio turns stored holdings into priced views and totals.
package portfolio

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Metrics are the derived figures for one position.
type Metrics struct {
	Invested      decimal.Decimal
	CurrentValue  decimal.Decimal
	ProfitLoss    decimal.Decimal
	ProfitLossPct decimal.Decimal
}

// ComputeMetrics values quantity units bought at ref and now worth current.
// ProfitLossPct is zero when nothing was invested.
func ComputeMetrics(quantity, ref, current decimal.Decimal) Metrics {
	invested := quantity.Mul(ref)
	value := quantity.Mul(current)
	pl := value.Sub(invested)
	return Metrics{
		Invested:      invested,
		CurrentValue:  value,
		ProfitLoss:    pl,
		ProfitLossPct: percentOf(pl, invested),
	}
}

// percentOf returns part/whole*100, or zero when whole is not positive.
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

// Rounded returns a copy with every figure rounded to places.
func (m Metrics) Rounded(places int32) Metrics {
	return Metrics{
		Invested:      m.Invested.Round(places),
		CurrentValue:  m.CurrentValue.Round(places),
		ProfitLoss:    m.ProfitLoss.Round(places),
		ProfitLossPct: m.ProfitLossPct.Round(places),
	}
}
