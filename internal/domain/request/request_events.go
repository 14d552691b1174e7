package request

import (
	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types for blood request lifecycle
const (
	EventTypeRequestCreated       = "request.created"
	EventTypeRequestStatusChanged = "request.status_changed"
)

const aggregateTypeBloodRequest = "BloodRequest"

// RequestCreatedEvent is emitted when a hospital files a request
type RequestCreatedEvent struct {
	shared.BaseDomainEvent
	MedicalCenterID uuid.UUID       `json:"medical_center_id"`
	BloodTypeName   string          `json:"blood_type_name"`
	Quantity        decimal.Decimal `json:"quantity"`
	Urgency         Urgency         `json:"urgency"`
}

// NewRequestCreatedEvent creates a new RequestCreatedEvent
func NewRequestCreatedEvent(r *BloodRequest) *RequestCreatedEvent {
	return &RequestCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRequestCreated, aggregateTypeBloodRequest, r.ID),
		MedicalCenterID: r.MedicalCenterID,
		BloodTypeName:   r.BloodTypeName,
		Quantity:        r.Quantity,
		Urgency:         r.Urgency,
	}
}

// RequestStatusChangedEvent is emitted on every status transition
type RequestStatusChangedEvent struct {
	shared.BaseDomainEvent
	MedicalCenterID uuid.UUID     `json:"medical_center_id"`
	Status          RequestStatus `json:"status"`
}

// NewRequestStatusChangedEvent creates a new RequestStatusChangedEvent
func NewRequestStatusChangedEvent(r *BloodRequest) *RequestStatusChangedEvent {
	return &RequestStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRequestStatusChanged, aggregateTypeBloodRequest, r.ID),
		MedicalCenterID: r.MedicalCenterID,
		Status:          r.Status,
	}
}
