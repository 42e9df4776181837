package tariff

import (
	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BreakdownLine is the contribution of one slab to a bill
type BreakdownLine struct {
	RangeLabel string          `json:"slab"`
	Units      decimal.Decimal `json:"units"`
	Rate       decimal.Decimal `json:"rate"`
	Amount     decimal.Decimal `json:"amount"`
}

// Calculation is the result of pricing a usage against a slab set
type Calculation struct {
	Total     decimal.Decimal `json:"total_amount"`
	Breakdown []BreakdownLine `json:"breakdown"`
}

// Calculate prices usage against slabs, filling slabs in ascending order.
// Line amounts are rounded to two decimals and the total is their sum.
// Slabs beyond full coverage are omitted from the breakdown.
func Calculate(usage decimal.Decimal, slabs []TariffSlab) (Calculation, error) {
	if usage.IsNegative() {
		return Calculation{}, shared.InvalidArgument("NEGATIVE_USAGE", "Usage cannot be negative")
	}

	result := Calculation{
		Total:     decimal.Zero,
		Breakdown: make([]BreakdownLine, 0, len(slabs)),
	}

	remaining := usage
	for _, slab := range SortSlabs(slabs) {
		if !remaining.IsPositive() {
			break
		}

		units := remaining
		if !slab.IsUnbounded() {
			units = decimal.Min(remaining, slab.Capacity())
		}
		amount := units.Mul(slab.Rate).Round(AmountPrecision)

		result.Breakdown = append(result.Breakdown, BreakdownLine{
			RangeLabel: slab.RangeLabel(),
			Units:      units,
			Rate:       slab.Rate,
			Amount:     amount,
		})
		result.Total = result.Total.Add(amount)
		remaining = remaining.Sub(units)
	}

	return result, nil
}
