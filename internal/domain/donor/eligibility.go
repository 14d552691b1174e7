package donor

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Default eligibility policy values
const (
	DefaultMinAge      = 18
	DefaultMaxAge      = 60
	DefaultMinInterval = 84 * 24 * time.Hour
)

// DefaultMinWeightKg is the minimum donor weight
var DefaultMinWeightKg = decimal.NewFromInt(45)

// EligibilityPolicy holds the medical rules deciding whether a donor may give
// blood. All bounds are inclusive: a donor aged exactly MinAge or MaxAge, at
// exactly MinWeightKg, or exactly MinInterval past their last donation, is
// eligible.
type EligibilityPolicy struct {
	MinAge      int
	MaxAge      int
	MinWeightKg decimal.Decimal
	MinInterval time.Duration
}

// DefaultEligibilityPolicy returns the standard donation rules
func DefaultEligibilityPolicy() EligibilityPolicy {
	return EligibilityPolicy{
		MinAge:      DefaultMinAge,
		MaxAge:      DefaultMaxAge,
		MinWeightKg: DefaultMinWeightKg,
		MinInterval: DefaultMinInterval,
	}
}

// EligibilityResult reports the outcome of an eligibility check. Reasons list
// every rule the donor fails, not just the first.
type EligibilityResult struct {
	Eligible bool     `json:"eligible"`
	Reasons  []string `json:"reasons,omitempty"`
}

// Check evaluates every rule against the donor at the given time
func (p EligibilityPolicy) Check(d *Donor, now time.Time) EligibilityResult {
	var reasons []string

	age := d.Age(now)
	if age < p.MinAge {
		reasons = append(reasons, fmt.Sprintf("Donor must be at least %d years old", p.MinAge))
	}
	if age > p.MaxAge {
		reasons = append(reasons, fmt.Sprintf("Donor must be at most %d years old", p.MaxAge))
	}
	if d.WeightKg.LessThan(p.MinWeightKg) {
		reasons = append(reasons, fmt.Sprintf("Donor must weigh at least %s kg", p.MinWeightKg.String()))
	}
	if d.LastDonationAt != nil && now.Sub(*d.LastDonationAt) < p.MinInterval {
		days := int(p.MinInterval.Hours() / 24)
		reasons = append(reasons, fmt.Sprintf("At least %d days must pass since the last donation", days))
	}

	return EligibilityResult{Eligible: len(reasons) == 0, Reasons: reasons}
}

// CanDonate reports whether the donor passes every rule
func (p EligibilityPolicy) CanDonate(d *Donor, now time.Time) bool {
	return p.Check(d, now).Eligible
}

// DaysUntilNextDonation returns how many whole days remain before the
// interval rule is satisfied, zero when the donor may already donate again.
// Age and weight rules are not considered here.
func (p EligibilityPolicy) DaysUntilNextDonation(d *Donor, now time.Time) int {
	if d.LastDonationAt == nil {
		return 0
	}
	remaining := p.MinInterval - now.Sub(*d.LastDonationAt)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Hours() / 24))
}
