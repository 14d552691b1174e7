package inventory

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/bloodbank/backend/internal/domain/blood"
	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// DefaultShelfLife is the shelf life of whole blood when no explicit
	// expiry is recorded at collection time
	DefaultShelfLife = 42 * 24 * time.Hour

	// DefaultNearExpiryWindow marks units that should be prioritized for use
	DefaultNearExpiryWindow = 7 * 24 * time.Hour

	// DefaultStorageTemp is the standard storage temperature label for whole blood
	DefaultStorageTemp = "2-6°C"

	hoursPerDay = 24
)

// BloodUnit is the aggregate root for one physical collected blood bag.
// Status transitions follow a closed state machine; units are soft-retired
// by reaching a terminal status and never physically deleted.
type BloodUnit struct {
	shared.BaseAggregateRoot
	Quantity        decimal.Decimal `gorm:"type:decimal(10,2);not null"` // milliliters
	CollectedAt     time.Time       `gorm:"not null"`
	ExpiresAt       time.Time       `gorm:"not null;index"`
	Status          BloodUnitStatus `gorm:"type:varchar(20);not null;index"`
	BatchNumber     string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	StorageTemp     string          `gorm:"type:varchar(20);not null"`
	BloodTypeID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	MedicalCenterID uuid.UUID       `gorm:"type:uuid;not null;index"`
	DonorID         *uuid.UUID      `gorm:"type:uuid;index"`
	ReservedFor     *uuid.UUID      `gorm:"type:uuid"` // blood request holding the reservation
	UsedAt          *time.Time

	// Association - loaded lazily
	BloodType *blood.BloodType `gorm:"foreignKey:BloodTypeID"`
}

// TableName returns the table name for GORM
func (BloodUnit) TableName() string {
	return "blood_units"
}

// NewBloodUnitParams holds the inputs for registering a collected unit
type NewBloodUnitParams struct {
	Quantity        decimal.Decimal
	CollectedAt     time.Time
	ExpiresAt       *time.Time // defaults to CollectedAt + DefaultShelfLife
	BatchNumber     string     // auto-generated when empty
	StorageTemp     string     // defaults to DefaultStorageTemp
	BloodTypeID     uuid.UUID
	MedicalCenterID uuid.UUID
	DonorID         *uuid.UUID
}

// NewBloodUnit registers a freshly collected unit. The unit starts in Testing
// status and becomes usable only after the quality check passes.
func NewBloodUnit(p NewBloodUnitParams) (*BloodUnit, error) {
	if p.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Quantity must be positive")
	}
	if p.BloodTypeID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Blood type ID cannot be empty")
	}
	if p.MedicalCenterID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Medical center ID cannot be empty")
	}
	if p.CollectedAt.IsZero() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Collection time is required")
	}

	expiresAt := p.CollectedAt.Add(DefaultShelfLife)
	if p.ExpiresAt != nil {
		expiresAt = *p.ExpiresAt
	}
	if !expiresAt.After(p.CollectedAt) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Expiry must be after collection")
	}

	batchNumber := p.BatchNumber
	if batchNumber == "" {
		batchNumber = GenerateBatchNumber(p.CollectedAt)
	}
	storageTemp := p.StorageTemp
	if storageTemp == "" {
		storageTemp = DefaultStorageTemp
	}

	unit := &BloodUnit{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Quantity:          p.Quantity,
		CollectedAt:       p.CollectedAt,
		ExpiresAt:         expiresAt,
		Status:            StatusTesting,
		BatchNumber:       batchNumber,
		StorageTemp:       storageTemp,
		BloodTypeID:       p.BloodTypeID,
		MedicalCenterID:   p.MedicalCenterID,
		DonorID:           p.DonorID,
	}

	unit.AddDomainEvent(NewUnitRegisteredEvent(unit))
	return unit, nil
}

// GenerateBatchNumber produces a batch number of the form BL-<YYYYMMDD>-<NNNN>
// using the collection date
func GenerateBatchNumber(collectedAt time.Time) string {
	return fmt.Sprintf("BL-%s-%04d", collectedAt.Format("20060102"), rand.IntN(10000))
}

// IsExpired reports whether the unit is past its expiry at the given time
func (u *BloodUnit) IsExpired(now time.Time) bool {
	return now.After(u.ExpiresAt)
}

// DaysUntilExpiry returns the number of whole days remaining before expiry,
// rounding partial days up. Expired units report zero.
func (u *BloodUnit) DaysUntilExpiry(now time.Time) int {
	if u.IsExpired(now) {
		return 0
	}
	hours := u.ExpiresAt.Sub(now).Hours()
	days := int(hours / hoursPerDay)
	if hours > float64(days*hoursPerDay) {
		days++
	}
	return days
}

// IsNearExpiry reports whether the unit expires within the default window
// and has not expired yet
func (u *BloodUnit) IsNearExpiry(now time.Time) bool {
	return u.NearExpiryWithin(now, DefaultNearExpiryWindow)
}

// NearExpiryWithin reports whether the unit expires within the given window
// and has not expired yet
func (u *BloodUnit) NearExpiryWithin(now time.Time, window time.Duration) bool {
	if u.IsExpired(now) {
		return false
	}
	return !u.ExpiresAt.After(now.Add(window))
}

// IsUsable reports whether the unit may be allocated: it must have passed
// testing and still be within its shelf life
func (u *BloodUnit) IsUsable(now time.Time) bool {
	return u.Status == StatusAvailable && !u.IsExpired(now)
}

// PassTesting moves the unit from Testing to Available after the quality
// check succeeds
func (u *BloodUnit) PassTesting(now time.Time) error {
	if u.Status != StatusTesting {
		return shared.NewDomainError("INVALID_STATE", "Only units under testing can be released to stock")
	}
	u.Status = StatusAvailable
	u.touch(now)
	u.AddDomainEvent(NewTestingCompletedEvent(u, true))
	return nil
}

// RejectTesting moves the unit from Testing to the terminal Rejected status
// after the quality check fails
func (u *BloodUnit) RejectTesting(now time.Time) error {
	if u.Status != StatusTesting {
		return shared.NewDomainError("INVALID_STATE", "Only units under testing can be rejected")
	}
	u.Status = StatusRejected
	u.touch(now)
	u.AddDomainEvent(NewTestingCompletedEvent(u, false))
	return nil
}

// Reserve allocates the unit to a blood request. The unit must be usable:
// Available and within its shelf life.
func (u *BloodUnit) Reserve(requestID uuid.UUID, now time.Time) error {
	if !u.IsUsable(now) {
		return shared.NewDomainError("INVALID_STATE", "Unit is not available for reservation")
	}
	u.Status = StatusReserved
	u.ReservedFor = &requestID
	u.touch(now)
	u.AddDomainEvent(NewUnitReservedEvent(u, requestID))
	return nil
}

// CancelReservation releases a reserved unit back to Available stock
func (u *BloodUnit) CancelReservation(now time.Time) error {
	if u.Status != StatusReserved {
		return shared.NewDomainError("INVALID_STATE", "Unit is not reserved")
	}
	requestID := u.ReservedFor
	u.Status = StatusAvailable
	u.ReservedFor = nil
	u.touch(now)
	u.AddDomainEvent(NewReservationCancelledEvent(u, requestID))
	return nil
}

// MarkAsUsed records the transfusion of a reserved unit. Used is terminal.
func (u *BloodUnit) MarkAsUsed(now time.Time) error {
	if u.Status != StatusReserved {
		return shared.NewDomainError("INVALID_STATE", "Only reserved units can be marked as used")
	}
	u.Status = StatusUsed
	u.UsedAt = &now
	u.touch(now)
	u.AddDomainEvent(NewUnitUsedEvent(u))
	return nil
}

// MarkExpired forcibly expires a unit that is past its expiry date. Intended
// for the periodic sweep only. Returns true if the status changed; units
// already in a terminal status are left untouched so repeated sweeps are
// no-ops and rejected units keep their rejection.
func (u *BloodUnit) MarkExpired(now time.Time) bool {
	if u.Status == StatusUsed || u.Status == StatusExpired || u.Status == StatusRejected {
		return false
	}
	if !u.IsExpired(now) {
		return false
	}
	u.Status = StatusExpired
	u.ReservedFor = nil
	u.touch(now)
	u.AddDomainEvent(NewUnitExpiredEvent(u))
	return true
}

// BloodTypeName returns the canonical type name when the association is loaded
func (u *BloodUnit) BloodTypeName() string {
	if u.BloodType == nil {
		return ""
	}
	return u.BloodType.Name
}

func (u *BloodUnit) touch(now time.Time) {
	u.UpdatedAt = now
	u.IncrementVersion()
}
