package tariff

import (
	"sort"
	"time"
)

// ActivePlans returns the plans that are approved and effective on asOf,
// ordered by billing precedence.
func ActivePlans(plans []TariffPlan, asOf time.Time) []TariffPlan {
	active := make([]TariffPlan, 0, len(plans))
	for i := range plans {
		if plans[i].IsActiveOn(asOf) {
			active = append(active, plans[i])
		}
	}
	SortByPrecedence(active)
	return active
}

// SelectActive picks the plan used for billing on asOf. It returns false when
// no plan is active.
func SelectActive(plans []TariffPlan, asOf time.Time) (*TariffPlan, bool) {
	active := ActivePlans(plans, asOf)
	if len(active) == 0 {
		return nil, false
	}
	return &active[0], true
}

// SortByPrecedence orders plans so the winning plan comes first: latest
// EffectiveFrom, then latest ReviewedAt, then latest CreatedAt, then the
// greatest ID.
func SortByPrecedence(plans []TariffPlan) {
	sort.SliceStable(plans, func(i, j int) bool {
		return precedes(&plans[i], &plans[j])
	})
}

func precedes(a, b *TariffPlan) bool {
	if !a.EffectiveFrom.Equal(b.EffectiveFrom) {
		return a.EffectiveFrom.After(b.EffectiveFrom)
	}
	ra, rb := reviewedAt(a), reviewedAt(b)
	if !ra.Equal(rb) {
		return ra.After(rb)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID.String() > b.ID.String()
}

func reviewedAt(p *TariffPlan) time.Time {
	if p.ReviewedAt == nil {
		return time.Time{}
	}
	return *p.ReviewedAt
}
