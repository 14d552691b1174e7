package donor

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func donorAged(t *testing.T, years int, now time.Time) *Donor {
	t.Helper()
	d, err := NewDonor(NewDonorParams{
		FullName:    "Test Donor",
		Email:       "donor@example.com",
		DateOfBirth: now.AddDate(-years, 0, 0),
		Gender:      GenderMale,
		WeightKg:    decimal.NewFromInt(70),
		BloodTypeID: uuid.New(),
	})
	require.NoError(t, err)
	return d
}

func TestEligibilityPolicy_Check(t *testing.T) {
	policy := DefaultEligibilityPolicy()
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	t.Run("first-time donor in range is eligible", func(t *testing.T) {
		d := donorAged(t, 30, now)
		result := policy.Check(d, now)
		assert.True(t, result.Eligible)
		assert.Empty(t, result.Reasons)
	})

	t.Run("age bounds are inclusive", func(t *testing.T) {
		cases := []struct {
			years    int
			eligible bool
		}{
			{17, false},
			{18, true},
			{60, true},
			{61, false},
		}
		for _, tc := range cases {
			d := donorAged(t, tc.years, now)
			assert.Equal(t, tc.eligible, policy.CanDonate(d, now), "age %d", tc.years)
		}
	})

	t.Run("weight bound is inclusive", func(t *testing.T) {
		d := donorAged(t, 30, now)

		d.WeightKg = decimal.NewFromFloat(44.9)
		result := policy.Check(d, now)
		assert.False(t, result.Eligible)
		require.Len(t, result.Reasons, 1)
		assert.Contains(t, result.Reasons[0], "45")

		d.WeightKg = decimal.NewFromInt(45)
		assert.True(t, policy.CanDonate(d, now))
	})

	t.Run("84 day interval, boundary inclusive", func(t *testing.T) {
		d := donorAged(t, 30, now)

		last := now.Add(-83 * 24 * time.Hour)
		d.LastDonationAt = &last
		assert.False(t, policy.CanDonate(d, now))

		last = now.Add(-84 * 24 * time.Hour)
		d.LastDonationAt = &last
		assert.True(t, policy.CanDonate(d, now))

		last = now.Add(-200 * 24 * time.Hour)
		d.LastDonationAt = &last
		assert.True(t, policy.CanDonate(d, now))
	})

	t.Run("collects every failed rule", func(t *testing.T) {
		d := donorAged(t, 17, now)
		d.WeightKg = decimal.NewFromInt(40)
		last := now.Add(-10 * 24 * time.Hour)
		d.LastDonationAt = &last

		result := policy.Check(d, now)
		assert.False(t, result.Eligible)
		assert.Len(t, result.Reasons, 3)
	})
}

func TestEligibilityPolicy_DaysUntilNextDonation(t *testing.T) {
	policy := DefaultEligibilityPolicy()
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	d := donorAged(t, 30, now)

	t.Run("zero for first-time donor", func(t *testing.T) {
		assert.Zero(t, policy.DaysUntilNextDonation(d, now))
	})

	t.Run("zero once the interval has passed", func(t *testing.T) {
		last := now.Add(-84 * 24 * time.Hour)
		d.LastDonationAt = &last
		assert.Zero(t, policy.DaysUntilNextDonation(d, now))
	})

	t.Run("counts remaining days, partial days round up", func(t *testing.T) {
		last := now.Add(-80 * 24 * time.Hour)
		d.LastDonationAt = &last
		assert.Equal(t, 4, policy.DaysUntilNextDonation(d, now))

		last = now.Add(-83*24*time.Hour - 12*time.Hour)
		d.LastDonationAt = &last
		assert.Equal(t, 1, policy.DaysUntilNextDonation(d, now))
	})

	t.Run("full interval right after donating", func(t *testing.T) {
		last := now
		d.LastDonationAt = &last
		assert.Equal(t, 84, policy.DaysUntilNextDonation(d, now))
	})
}
