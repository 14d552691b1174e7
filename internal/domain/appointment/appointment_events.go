package appointment

import (
	"time"

	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Event types for appointment lifecycle
const (
	EventTypeAppointmentBooked        = "appointment.booked"
	EventTypeAppointmentStatusChanged = "appointment.status_changed"
)

const aggregateTypeAppointment = "DonationAppointment"

// AppointmentBookedEvent is emitted when a donor books a slot
type AppointmentBookedEvent struct {
	shared.BaseDomainEvent
	DonorID         uuid.UUID `json:"donor_id"`
	MedicalCenterID uuid.UUID `json:"medical_center_id"`
	ScheduledAt     time.Time `json:"scheduled_at"`
}

// NewAppointmentBookedEvent creates a new AppointmentBookedEvent
func NewAppointmentBookedEvent(a *DonationAppointment) *AppointmentBookedEvent {
	return &AppointmentBookedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAppointmentBooked, aggregateTypeAppointment, a.ID),
		DonorID:         a.DonorID,
		MedicalCenterID: a.MedicalCenterID,
		ScheduledAt:     a.ScheduledAt,
	}
}

// AppointmentStatusChangedEvent is emitted on every status transition
type AppointmentStatusChangedEvent struct {
	shared.BaseDomainEvent
	DonorID uuid.UUID         `json:"donor_id"`
	Status  AppointmentStatus `json:"status"`
}

// NewAppointmentStatusChangedEvent creates a new AppointmentStatusChangedEvent
func NewAppointmentStatusChangedEvent(a *DonationAppointment) *AppointmentStatusChangedEvent {
	return &AppointmentStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAppointmentStatusChanged, aggregateTypeAppointment, a.ID),
		DonorID:         a.DonorID,
		Status:          a.Status,
	}
}
