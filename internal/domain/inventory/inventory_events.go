package inventory

import (
	"time"

	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types for blood unit lifecycle
const (
	EventTypeUnitRegistered       = "inventory.unit_registered"
	EventTypeTestingCompleted     = "inventory.testing_completed"
	EventTypeUnitReserved         = "inventory.unit_reserved"
	EventTypeReservationCancelled = "inventory.reservation_cancelled"
	EventTypeUnitUsed             = "inventory.unit_used"
	EventTypeUnitExpired          = "inventory.unit_expired"
)

const aggregateTypeBloodUnit = "BloodUnit"

// UnitRegisteredEvent is emitted when a collected unit enters the inventory
type UnitRegisteredEvent struct {
	shared.BaseDomainEvent
	BatchNumber string          `json:"batch_number"`
	BloodTypeID uuid.UUID       `json:"blood_type_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	ExpiresAt   time.Time       `json:"expires_at"`
}

// NewUnitRegisteredEvent creates a new UnitRegisteredEvent
func NewUnitRegisteredEvent(unit *BloodUnit) *UnitRegisteredEvent {
	return &UnitRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUnitRegistered, aggregateTypeBloodUnit, unit.ID),
		BatchNumber:     unit.BatchNumber,
		BloodTypeID:     unit.BloodTypeID,
		Quantity:        unit.Quantity,
		ExpiresAt:       unit.ExpiresAt,
	}
}

// TestingCompletedEvent is emitted when the quality check finishes
type TestingCompletedEvent struct {
	shared.BaseDomainEvent
	BatchNumber string `json:"batch_number"`
	Passed      bool   `json:"passed"`
}

// NewTestingCompletedEvent creates a new TestingCompletedEvent
func NewTestingCompletedEvent(unit *BloodUnit, passed bool) *TestingCompletedEvent {
	return &TestingCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTestingCompleted, aggregateTypeBloodUnit, unit.ID),
		BatchNumber:     unit.BatchNumber,
		Passed:          passed,
	}
}

// UnitReservedEvent is emitted when a unit is allocated to a blood request
type UnitReservedEvent struct {
	shared.BaseDomainEvent
	BatchNumber string          `json:"batch_number"`
	RequestID   uuid.UUID       `json:"request_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// NewUnitReservedEvent creates a new UnitReservedEvent
func NewUnitReservedEvent(unit *BloodUnit, requestID uuid.UUID) *UnitReservedEvent {
	return &UnitReservedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUnitReserved, aggregateTypeBloodUnit, unit.ID),
		BatchNumber:     unit.BatchNumber,
		RequestID:       requestID,
		Quantity:        unit.Quantity,
	}
}

// ReservationCancelledEvent is emitted when a reserved unit returns to stock
type ReservationCancelledEvent struct {
	shared.BaseDomainEvent
	BatchNumber string     `json:"batch_number"`
	RequestID   *uuid.UUID `json:"request_id,omitempty"`
}

// NewReservationCancelledEvent creates a new ReservationCancelledEvent
func NewReservationCancelledEvent(unit *BloodUnit, requestID *uuid.UUID) *ReservationCancelledEvent {
	return &ReservationCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReservationCancelled, aggregateTypeBloodUnit, unit.ID),
		BatchNumber:     unit.BatchNumber,
		RequestID:       requestID,
	}
}

// UnitUsedEvent is emitted when a unit is transfused
type UnitUsedEvent struct {
	shared.BaseDomainEvent
	BatchNumber string          `json:"batch_number"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// NewUnitUsedEvent creates a new UnitUsedEvent
func NewUnitUsedEvent(unit *BloodUnit) *UnitUsedEvent {
	return &UnitUsedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUnitUsed, aggregateTypeBloodUnit, unit.ID),
		BatchNumber:     unit.BatchNumber,
		Quantity:        unit.Quantity,
	}
}

// UnitExpiredEvent is emitted when the sweep retires an expired unit
type UnitExpiredEvent struct {
	shared.BaseDomainEvent
	BatchNumber string          `json:"batch_number"`
	Quantity    decimal.Decimal `json:"quantity"`
	ExpiresAt   time.Time       `json:"expires_at"`
}

// NewUnitExpiredEvent creates a new UnitExpiredEvent
func NewUnitExpiredEvent(unit *BloodUnit) *UnitExpiredEvent {
	return &UnitExpiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUnitExpired, aggregateTypeBloodUnit, unit.ID),
		BatchNumber:     unit.BatchNumber,
		Quantity:        unit.Quantity,
		ExpiresAt:       unit.ExpiresAt,
	}
}
