package request

import (
	"strings"
	"time"

	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequestStatus represents the lifecycle state of a blood request
type RequestStatus string

const (
	StatusPending   RequestStatus = "PENDING"
	StatusApproved  RequestStatus = "APPROVED"
	StatusFulfilled RequestStatus = "FULFILLED"
	StatusRejected  RequestStatus = "REJECTED"
	StatusCancelled RequestStatus = "CANCELLED"
)

// IsValid checks if the status is a known value
func (s RequestStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusFulfilled, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the request can change no further
func (s RequestStatus) IsTerminal() bool {
	switch s {
	case StatusFulfilled, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// Urgency of a blood request
type Urgency string

const (
	UrgencyNormal   Urgency = "NORMAL"
	UrgencyUrgent   Urgency = "URGENT"
	UrgencyCritical Urgency = "CRITICAL"
)

// IsValid checks if the urgency is a known value
func (u Urgency) IsValid() bool {
	switch u {
	case UrgencyNormal, UrgencyUrgent, UrgencyCritical:
		return true
	}
	return false
}

// BloodRequest represents a hospital's demand for blood of a given type
type BloodRequest struct {
	shared.BaseAggregateRoot
	MedicalCenterID uuid.UUID       `gorm:"type:uuid;not null;index" json:"medical_center_id"`
	BloodTypeID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"blood_type_id"`
	BloodTypeName   string          `gorm:"type:varchar(3);not null" json:"blood_type_name"`
	Quantity        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"quantity"`
	Urgency         Urgency         `gorm:"type:varchar(16);not null" json:"urgency"`
	Status          RequestStatus   `gorm:"type:varchar(16);not null;index" json:"status"`
	PatientName     string          `gorm:"type:varchar(255)" json:"patient_name"`
	Diagnosis       string          `gorm:"type:text" json:"diagnosis"`
	StaffNotes      string          `gorm:"type:text" json:"staff_notes"`
	NeededBy        *time.Time      `json:"needed_by,omitempty"`
	FulfilledAt     *time.Time      `json:"fulfilled_at,omitempty"`
}

// TableName returns the table name for GORM
func (BloodRequest) TableName() string {
	return "blood_requests"
}

// NewRequestParams holds the parameters for creating a blood request
type NewRequestParams struct {
	MedicalCenterID uuid.UUID
	BloodTypeID     uuid.UUID
	BloodTypeName   string
	Quantity        decimal.Decimal
	Urgency         Urgency
	PatientName     string
	Diagnosis       string
	NeededBy        *time.Time
}

// NewBloodRequest creates a pending request
func NewBloodRequest(params NewRequestParams) (*BloodRequest, error) {
	if params.MedicalCenterID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Medical center is required")
	}
	if params.BloodTypeID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Blood type is required")
	}
	if params.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Requested quantity must be positive")
	}
	urgency := params.Urgency
	if urgency == "" {
		urgency = UrgencyNormal
	}
	if !urgency.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid urgency")
	}

	r := &BloodRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		MedicalCenterID:   params.MedicalCenterID,
		BloodTypeID:       params.BloodTypeID,
		BloodTypeName:     strings.ToUpper(strings.TrimSpace(params.BloodTypeName)),
		Quantity:          params.Quantity,
		Urgency:           urgency,
		Status:            StatusPending,
		PatientName:       params.PatientName,
		Diagnosis:         params.Diagnosis,
		NeededBy:          params.NeededBy,
	}
	r.AddDomainEvent(NewRequestCreatedEvent(r))
	return r, nil
}

// Approve accepts a pending request for allocation
func (r *BloodRequest) Approve(now time.Time) error {
	if r.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending requests can be approved")
	}
	r.Status = StatusApproved
	r.touch(now)
	r.AddDomainEvent(NewRequestStatusChangedEvent(r))
	return nil
}

// Reject declines a pending request
func (r *BloodRequest) Reject(reason string, now time.Time) error {
	if r.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending requests can be rejected")
	}
	r.Status = StatusRejected
	r.StaffNotes = reason
	r.touch(now)
	r.AddDomainEvent(NewRequestStatusChangedEvent(r))
	return nil
}

// Fulfill closes an approved request once its units have been transfused
func (r *BloodRequest) Fulfill(now time.Time) error {
	if r.Status != StatusApproved {
		return shared.NewDomainError("INVALID_STATE", "Only approved requests can be fulfilled")
	}
	r.Status = StatusFulfilled
	r.FulfilledAt = &now
	r.touch(now)
	r.AddDomainEvent(NewRequestStatusChangedEvent(r))
	return nil
}

// Cancel withdraws a pending or approved request. Cancelling an approved
// request obliges the caller to release its reserved units.
func (r *BloodRequest) Cancel(now time.Time) error {
	if r.Status != StatusPending && r.Status != StatusApproved {
		return shared.NewDomainError("INVALID_STATE", "Only pending or approved requests can be cancelled")
	}
	r.Status = StatusCancelled
	r.touch(now)
	r.AddDomainEvent(NewRequestStatusChangedEvent(r))
	return nil
}

func (r *BloodRequest) touch(now time.Time) {
	r.UpdatedAt = now
	r.IncrementVersion()
}
