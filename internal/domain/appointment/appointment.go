package appointment

import (
	"time"

	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AppointmentStatus represents the lifecycle state of a donation appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "PENDING"
	StatusConfirmed AppointmentStatus = "CONFIRMED"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusCancelled AppointmentStatus = "CANCELLED"
	StatusRejected  AppointmentStatus = "REJECTED"
	StatusNoShow    AppointmentStatus = "NO_SHOW"
)

// IsValid checks if the status is a known value
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusRejected, StatusNoShow:
		return true
	}
	return false
}

// IsTerminal reports whether the appointment can change no further
func (s AppointmentStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusRejected, StatusNoShow:
		return true
	}
	return false
}

// DonationAppointment represents a donor's scheduled visit to a medical center
type DonationAppointment struct {
	shared.BaseAggregateRoot
	DonorID         uuid.UUID         `gorm:"type:uuid;not null;index" json:"donor_id"`
	MedicalCenterID uuid.UUID         `gorm:"type:uuid;not null;index" json:"medical_center_id"`
	ScheduledAt     time.Time         `gorm:"not null;index" json:"scheduled_at"`
	Status          AppointmentStatus `gorm:"type:varchar(16);not null;index" json:"status"`
	Notes           string            `gorm:"type:text" json:"notes"`
	StaffNotes      string            `gorm:"type:text" json:"staff_notes"`
	CompletedAt     *time.Time        `json:"completed_at,omitempty"`
}

// TableName returns the table name for GORM
func (DonationAppointment) TableName() string {
	return "donation_appointments"
}

// NewAppointment books a pending appointment. The slot must lie in the future.
func NewAppointment(donorID, centerID uuid.UUID, scheduledAt time.Time, notes string, now time.Time) (*DonationAppointment, error) {
	if donorID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Donor is required")
	}
	if centerID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Medical center is required")
	}
	if !scheduledAt.After(now) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Appointment must be scheduled in the future")
	}

	a := &DonationAppointment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		DonorID:           donorID,
		MedicalCenterID:   centerID,
		ScheduledAt:       scheduledAt,
		Status:            StatusPending,
		Notes:             notes,
	}
	a.AddDomainEvent(NewAppointmentBookedEvent(a))
	return a, nil
}

// Confirm accepts a pending appointment
func (a *DonationAppointment) Confirm(now time.Time) error {
	if a.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending appointments can be confirmed")
	}
	a.Status = StatusConfirmed
	a.touch(now)
	a.AddDomainEvent(NewAppointmentStatusChangedEvent(a))
	return nil
}

// Reject declines a pending appointment, recording the staff's reason
func (a *DonationAppointment) Reject(reason string, now time.Time) error {
	if a.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending appointments can be rejected")
	}
	a.Status = StatusRejected
	a.StaffNotes = reason
	a.touch(now)
	a.AddDomainEvent(NewAppointmentStatusChangedEvent(a))
	return nil
}

// Cancel withdraws a pending or confirmed appointment
func (a *DonationAppointment) Cancel(now time.Time) error {
	if a.Status != StatusPending && a.Status != StatusConfirmed {
		return shared.NewDomainError("INVALID_STATE", "Only pending or confirmed appointments can be cancelled")
	}
	a.Status = StatusCancelled
	a.touch(now)
	a.AddDomainEvent(NewAppointmentStatusChangedEvent(a))
	return nil
}

// Complete closes a confirmed appointment after the donation took place
func (a *DonationAppointment) Complete(now time.Time) error {
	if a.Status != StatusConfirmed {
		return shared.NewDomainError("INVALID_STATE", "Only confirmed appointments can be completed")
	}
	a.Status = StatusCompleted
	a.CompletedAt = &now
	a.touch(now)
	a.AddDomainEvent(NewAppointmentStatusChangedEvent(a))
	return nil
}

// MarkNoShow closes a confirmed appointment the donor missed
func (a *DonationAppointment) MarkNoShow(now time.Time) error {
	if a.Status != StatusConfirmed {
		return shared.NewDomainError("INVALID_STATE", "Only confirmed appointments can be marked as no-show")
	}
	if now.Before(a.ScheduledAt) {
		return shared.NewDomainError("INVALID_STATE", "Appointment slot has not passed yet")
	}
	a.Status = StatusNoShow
	a.touch(now)
	a.AddDomainEvent(NewAppointmentStatusChangedEvent(a))
	return nil
}

func (a *DonationAppointment) touch(now time.Time) {
	a.UpdatedAt = now
	a.IncrementVersion()
}
