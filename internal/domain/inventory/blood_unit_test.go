package inventory

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUnit(t *testing.T) *BloodUnit {
	t.Helper()
	unit, err := NewBloodUnit(NewBloodUnitParams{
		Quantity:        decimal.NewFromInt(450),
		CollectedAt:     time.Now(),
		BloodTypeID:     uuid.New(),
		MedicalCenterID: uuid.New(),
	})
	require.NoError(t, err)
	return unit
}

func newAvailableUnit(t *testing.T) *BloodUnit {
	t.Helper()
	unit := newTestUnit(t)
	require.NoError(t, unit.PassTesting(time.Now()))
	return unit
}

func TestNewBloodUnit(t *testing.T) {
	collectedAt := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)

	t.Run("creates unit in testing status with defaults", func(t *testing.T) {
		unit, err := NewBloodUnit(NewBloodUnitParams{
			Quantity:        decimal.NewFromInt(350),
			CollectedAt:     collectedAt,
			BloodTypeID:     uuid.New(),
			MedicalCenterID: uuid.New(),
		})

		require.NoError(t, err)
		assert.Equal(t, StatusTesting, unit.Status)
		assert.Equal(t, collectedAt.Add(DefaultShelfLife), unit.ExpiresAt)
		assert.Equal(t, DefaultStorageTemp, unit.StorageTemp)
		assert.True(t, strings.HasPrefix(unit.BatchNumber, "BL-20260310-"))
		assert.Len(t, unit.BatchNumber, len("BL-20260310-0000"))
		assert.Equal(t, 1, unit.Version)
	})

	t.Run("keeps explicit batch number and expiry", func(t *testing.T) {
		expiry := collectedAt.Add(30 * 24 * time.Hour)
		unit, err := NewBloodUnit(NewBloodUnitParams{
			Quantity:        decimal.NewFromInt(450),
			CollectedAt:     collectedAt,
			ExpiresAt:       &expiry,
			BatchNumber:     "BL-20260310-7777",
			BloodTypeID:     uuid.New(),
			MedicalCenterID: uuid.New(),
		})

		require.NoError(t, err)
		assert.Equal(t, expiry, unit.ExpiresAt)
		assert.Equal(t, "BL-20260310-7777", unit.BatchNumber)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		_, err := NewBloodUnit(NewBloodUnitParams{
			Quantity:        decimal.Zero,
			CollectedAt:     collectedAt,
			BloodTypeID:     uuid.New(),
			MedicalCenterID: uuid.New(),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "positive")
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		_, err := NewBloodUnit(NewBloodUnitParams{
			Quantity:        decimal.NewFromInt(-10),
			CollectedAt:     collectedAt,
			BloodTypeID:     uuid.New(),
			MedicalCenterID: uuid.New(),
		})
		require.Error(t, err)
	})

	t.Run("rejects expiry at or before collection", func(t *testing.T) {
		_, err := NewBloodUnit(NewBloodUnitParams{
			Quantity:        decimal.NewFromInt(450),
			CollectedAt:     collectedAt,
			ExpiresAt:       &collectedAt,
			BloodTypeID:     uuid.New(),
			MedicalCenterID: uuid.New(),
		})
		require.Error(t, err)
	})

	t.Run("emits registered event", func(t *testing.T) {
		unit := newTestUnit(t)
		events := unit.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeUnitRegistered, events[0].EventType())
	})
}

func TestBloodUnit_Testing(t *testing.T) {
	t.Run("pass moves to available", func(t *testing.T) {
		unit := newTestUnit(t)
		require.NoError(t, unit.PassTesting(time.Now()))
		assert.Equal(t, StatusAvailable, unit.Status)
	})

	t.Run("reject moves to rejected", func(t *testing.T) {
		unit := newTestUnit(t)
		require.NoError(t, unit.RejectTesting(time.Now()))
		assert.Equal(t, StatusRejected, unit.Status)
	})

	t.Run("pass fails once already available", func(t *testing.T) {
		unit := newAvailableUnit(t)
		err := unit.PassTesting(time.Now())
		require.Error(t, err)
		assert.Equal(t, StatusAvailable, unit.Status)
	})
}

func TestBloodUnit_Reserve(t *testing.T) {
	now := time.Now()

	t.Run("reserves an available unit", func(t *testing.T) {
		unit := newAvailableUnit(t)
		requestID := uuid.New()

		require.NoError(t, unit.Reserve(requestID, now))
		assert.Equal(t, StatusReserved, unit.Status)
		require.NotNil(t, unit.ReservedFor)
		assert.Equal(t, requestID, *unit.ReservedFor)
	})

	t.Run("fails on unit still under testing", func(t *testing.T) {
		unit := newTestUnit(t)
		err := unit.Reserve(uuid.New(), now)
		require.Error(t, err)
		assert.Equal(t, StatusTesting, unit.Status)
	})

	t.Run("fails on already reserved unit", func(t *testing.T) {
		unit := newAvailableUnit(t)
		require.NoError(t, unit.Reserve(uuid.New(), now))

		err := unit.Reserve(uuid.New(), now)
		require.Error(t, err)
		assert.Equal(t, StatusReserved, unit.Status)
	})

	t.Run("fails on expired unit and leaves status unchanged", func(t *testing.T) {
		unit := newAvailableUnit(t)
		afterExpiry := unit.ExpiresAt.Add(time.Hour)

		err := unit.Reserve(uuid.New(), afterExpiry)
		require.Error(t, err)
		assert.Equal(t, StatusAvailable, unit.Status)
	})

	t.Run("bumps version and updated at", func(t *testing.T) {
		unit := newAvailableUnit(t)
		versionBefore := unit.Version

		require.NoError(t, unit.Reserve(uuid.New(), now))
		assert.Equal(t, versionBefore+1, unit.Version)
	})
}

func TestBloodUnit_CancelReservation(t *testing.T) {
	now := time.Now()

	t.Run("restores available without altering unit data", func(t *testing.T) {
		unit := newAvailableUnit(t)
		quantity := unit.Quantity
		expiry := unit.ExpiresAt
		bloodTypeID := unit.BloodTypeID

		require.NoError(t, unit.Reserve(uuid.New(), now))
		require.NoError(t, unit.CancelReservation(now))

		assert.Equal(t, StatusAvailable, unit.Status)
		assert.Nil(t, unit.ReservedFor)
		assert.True(t, quantity.Equal(unit.Quantity))
		assert.Equal(t, expiry, unit.ExpiresAt)
		assert.Equal(t, bloodTypeID, unit.BloodTypeID)
	})

	t.Run("fails when not reserved", func(t *testing.T) {
		unit := newAvailableUnit(t)
		err := unit.CancelReservation(now)
		require.Error(t, err)
		assert.Equal(t, StatusAvailable, unit.Status)
	})
}

func TestBloodUnit_MarkAsUsed(t *testing.T) {
	now := time.Now()

	t.Run("marks reserved unit as used", func(t *testing.T) {
		unit := newAvailableUnit(t)
		require.NoError(t, unit.Reserve(uuid.New(), now))

		require.NoError(t, unit.MarkAsUsed(now))
		assert.Equal(t, StatusUsed, unit.Status)
		require.NotNil(t, unit.UsedAt)
	})

	t.Run("fails on available unit", func(t *testing.T) {
		unit := newAvailableUnit(t)
		require.Error(t, unit.MarkAsUsed(now))
	})

	t.Run("used is terminal", func(t *testing.T) {
		unit := newAvailableUnit(t)
		require.NoError(t, unit.Reserve(uuid.New(), now))
		require.NoError(t, unit.MarkAsUsed(now))

		require.Error(t, unit.CancelReservation(now))
		assert.Equal(t, StatusUsed, unit.Status)
	})
}

func TestBloodUnit_MarkExpired(t *testing.T) {
	t.Run("expires units past their expiry", func(t *testing.T) {
		for _, status := range []BloodUnitStatus{StatusTesting, StatusAvailable, StatusReserved} {
			unit := newTestUnit(t)
			unit.Status = status
			afterExpiry := unit.ExpiresAt.Add(time.Hour)

			assert.True(t, unit.MarkExpired(afterExpiry), "status %s", status)
			assert.Equal(t, StatusExpired, unit.Status)
		}
	})

	t.Run("no-op before expiry", func(t *testing.T) {
		unit := newAvailableUnit(t)
		assert.False(t, unit.MarkExpired(time.Now()))
		assert.Equal(t, StatusAvailable, unit.Status)
	})

	t.Run("no-op on used and already expired units", func(t *testing.T) {
		unit := newAvailableUnit(t)
		afterExpiry := unit.ExpiresAt.Add(time.Hour)
		require.True(t, unit.MarkExpired(afterExpiry))

		versionAfterFirst := unit.Version
		assert.False(t, unit.MarkExpired(afterExpiry))
		assert.Equal(t, versionAfterFirst, unit.Version)

		used := newAvailableUnit(t)
		require.NoError(t, used.Reserve(uuid.New(), time.Now()))
		require.NoError(t, used.MarkAsUsed(time.Now()))
		assert.False(t, used.MarkExpired(afterExpiry))
		assert.Equal(t, StatusUsed, used.Status)
	})

	t.Run("rejected units stay rejected past expiry", func(t *testing.T) {
		unit := newTestUnit(t)
		require.NoError(t, unit.RejectTesting(time.Now()))
		afterExpiry := unit.ExpiresAt.Add(time.Hour)

		assert.False(t, unit.MarkExpired(afterExpiry))
		assert.Equal(t, StatusRejected, unit.Status)
	})
}

func TestBloodUnit_ExpiryDerivedFields(t *testing.T) {
	unit := newAvailableUnit(t)

	t.Run("usable iff available and not expired", func(t *testing.T) {
		now := time.Now()
		assert.True(t, unit.IsUsable(now))
		assert.False(t, unit.IsUsable(unit.ExpiresAt.Add(time.Second)))

		testing := newTestUnit(t)
		assert.False(t, testing.IsUsable(now))
	})

	t.Run("days until expiry rounds partial days up", func(t *testing.T) {
		assert.Equal(t, 42, unit.DaysUntilExpiry(unit.ExpiresAt.Add(-42*24*time.Hour)))
		assert.Equal(t, 1, unit.DaysUntilExpiry(unit.ExpiresAt.Add(-3*time.Hour)))
		assert.Equal(t, 0, unit.DaysUntilExpiry(unit.ExpiresAt.Add(time.Minute)))
	})

	t.Run("near expiry inside seven day window only", func(t *testing.T) {
		assert.True(t, unit.IsNearExpiry(unit.ExpiresAt.Add(-6*24*time.Hour)))
		assert.True(t, unit.IsNearExpiry(unit.ExpiresAt.Add(-7*24*time.Hour)))
		assert.False(t, unit.IsNearExpiry(unit.ExpiresAt.Add(-8*24*time.Hour)))
		assert.False(t, unit.IsNearExpiry(unit.ExpiresAt.Add(time.Hour)), "expired units are not near-expiry")
	})
}
