// Package tariff contains the slab pricing model: slab-set validation, the
// bill calculator, the TariffPlan aggregate and active plan selection.
package tariff

import (
	"fmt"
	"sort"

	"github.com/AcmeAI-Git/water-tariff-backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AmountPrecision is the number of fractional digits kept for readings and money
const AmountPrecision int32 = 2

// UnboundedLabel is used in range labels for the open-ended final slab
const UnboundedLabel = "Unlimited"

// TariffSlab is a contiguous consumption range priced at a single rate.
// A nil Max means the slab is unbounded.
type TariffSlab struct {
	ID    uuid.UUID
	Min   decimal.Decimal
	Max   *decimal.Decimal
	Rate  decimal.Decimal
	Order int
}

// NewTariffSlab creates a slab. Pass nil max for the unbounded slab.
func NewTariffSlab(order int, min decimal.Decimal, max *decimal.Decimal, rate decimal.Decimal) TariffSlab {
	return TariffSlab{
		ID:    uuid.New(),
		Min:   min,
		Max:   max,
		Rate:  rate,
		Order: order,
	}
}

// IsUnbounded reports whether the slab has no upper limit
func (s TariffSlab) IsUnbounded() bool {
	return s.Max == nil
}

// Capacity returns Max - Min for bounded slabs
func (s TariffSlab) Capacity() decimal.Decimal {
	if s.Max == nil {
		return decimal.Zero
	}
	return s.Max.Sub(s.Min)
}

// RangeLabel renders the slab range, e.g. "0-100" or "200-Unlimited"
func (s TariffSlab) RangeLabel() string {
	if s.Max == nil {
		return fmt.Sprintf("%s-%s", s.Min.String(), UnboundedLabel)
	}
	return fmt.Sprintf("%s-%s", s.Min.String(), s.Max.String())
}

// SortSlabs returns a copy of slabs ordered by Order
func SortSlabs(slabs []TariffSlab) []TariffSlab {
	sorted := make([]TariffSlab, len(slabs))
	copy(sorted, slabs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})
	return sorted
}

// ValidateSlabs checks that slabs partition [0, inf) and returns them sorted
// by order. Rules are checked one at a time across the whole set and the
// first violated rule is reported; nothing is accepted partially.
func ValidateSlabs(slabs []TariffSlab) ([]TariffSlab, error) {
	if len(slabs) == 0 {
		return nil, shared.InvalidArgument("SLABS_REQUIRED", "At least one tariff slab is required")
	}

	sorted := SortSlabs(slabs)

	for i, slab := range sorted {
		if slab.Order != i+1 {
			return nil, shared.InvalidArgument("SLAB_ORDER_NOT_SEQUENTIAL",
				"Slab orders must be sequential from 1")
		}
	}

	for _, slab := range sorted {
		if slab.Min.IsNegative() {
			return nil, shared.InvalidArgument("NEGATIVE_SLAB_MIN",
				fmt.Sprintf("Slab %d: minimum consumption cannot be negative", slab.Order))
		}
	}

	for _, slab := range sorted {
		if slab.Max != nil && slab.Max.LessThanOrEqual(slab.Min) {
			return nil, shared.InvalidArgument("INVALID_SLAB_RANGE",
				fmt.Sprintf("Slab %d: maximum consumption must be greater than minimum", slab.Order))
		}
	}

	for _, slab := range sorted[:len(sorted)-1] {
		if slab.Max == nil {
			return nil, shared.InvalidArgument("UNBOUNDED_SLAB_NOT_LAST",
				fmt.Sprintf("Slab %d: only the final slab may be unbounded", slab.Order))
		}
	}

	if !sorted[0].Min.IsZero() {
		return nil, shared.InvalidArgument("FIRST_SLAB_NOT_ZERO", "First slab must start at 0")
	}

	for i := 1; i < len(sorted); i++ {
		prev := sorted[i-1]
		if !sorted[i].Min.Equal(*prev.Max) {
			return nil, shared.InvalidArgument("SLABS_NOT_CONTIGUOUS",
				fmt.Sprintf("Slabs must be contiguous: slab %d starts at %s but slab %d ends at %s",
					sorted[i].Order, sorted[i].Min.String(), prev.Order, prev.Max.String()))
		}
	}

	for _, slab := range sorted {
		if !slab.Rate.IsPositive() {
			return nil, shared.InvalidArgument("INVALID_SLAB_RATE",
				fmt.Sprintf("Slab %d: rate per unit must be positive", slab.Order))
		}
	}

	// Stored columns keep AmountPrecision digits; anything finer would be
	// priced differently once persisted.
	for _, slab := range sorted {
		if !hasAmountPrecision(slab.Min) || !hasAmountPrecision(slab.Rate) ||
			(slab.Max != nil && !hasAmountPrecision(*slab.Max)) {
			return nil, shared.InvalidArgument("INVALID_SLAB_PRECISION",
				fmt.Sprintf("Slab %d: values may have at most %d decimal places", slab.Order, AmountPrecision))
		}
	}

	return sorted, nil
}

func hasAmountPrecision(v decimal.Decimal) bool {
	return v.Equal(v.Round(AmountPrecision))
}
