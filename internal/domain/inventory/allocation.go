package inventory

import (
	"sort"
	"time"

	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AllocationResult is the outcome of selecting units for a requested quantity.
// Insufficient supply is not an error: Shortfall and FullyFulfilled report how
// much of the demand could be covered, and the caller decides what to do.
type AllocationResult struct {
	Units          []BloodUnit     // selected units, soonest-to-expire first
	Requested      decimal.Decimal // quantity asked for
	TotalSelected  decimal.Decimal // sum of selected unit quantities
	Shortfall      decimal.Decimal // zero when fully fulfilled
	FullyFulfilled bool
}

// SelectUnits greedily picks usable units until the requested quantity is
// covered, preferring units closest to expiry so stock is consumed before it
// spoils. Candidates that are not usable at the given time are skipped.
func SelectUnits(requested decimal.Decimal, candidates []BloodUnit, now time.Time) (*AllocationResult, error) {
	if requested.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Requested quantity must be positive")
	}

	usable := make([]BloodUnit, 0, len(candidates))
	for _, unit := range candidates {
		if unit.IsUsable(now) {
			usable = append(usable, unit)
		}
	}

	// Soonest expiry first; creation order breaks ties deterministically.
	sort.Slice(usable, func(i, j int) bool {
		if !usable[i].ExpiresAt.Equal(usable[j].ExpiresAt) {
			return usable[i].ExpiresAt.Before(usable[j].ExpiresAt)
		}
		return usable[i].CreatedAt.Before(usable[j].CreatedAt)
	})

	selected := make([]BloodUnit, 0)
	total := decimal.Zero
	for _, unit := range usable {
		if total.GreaterThanOrEqual(requested) {
			break
		}
		selected = append(selected, unit)
		total = total.Add(unit.Quantity)
	}

	shortfall := requested.Sub(total)
	if shortfall.IsNegative() {
		shortfall = decimal.Zero
	}

	return &AllocationResult{
		Units:          selected,
		Requested:      requested,
		TotalSelected:  total,
		Shortfall:      shortfall,
		FullyFulfilled: shortfall.IsZero(),
	}, nil
}
