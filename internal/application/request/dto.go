package request

import (
	"time"

	"github.com/bloodbank/backend/internal/domain/request"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateRequestRequest is the input for filing a blood request
type CreateRequestRequest struct {
	MedicalCenterID uuid.UUID       `json:"medical_center_id" binding:"required"`
	BloodType       string          `json:"blood_type" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	Urgency         string          `json:"urgency,omitempty"`
	PatientName     string          `json:"patient_name,omitempty"`
	Diagnosis       string          `json:"diagnosis,omitempty"`
	NeededBy        *time.Time      `json:"needed_by,omitempty"`
}

// RejectRequestRequest carries the staff's reason for declining
type RejectRequestRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// BloodRequestResponse is the API representation of a blood request
type BloodRequestResponse struct {
	ID              uuid.UUID       `json:"id"`
	MedicalCenterID uuid.UUID       `json:"medical_center_id"`
	BloodTypeID     uuid.UUID       `json:"blood_type_id"`
	BloodType       string          `json:"blood_type"`
	Quantity        decimal.Decimal `json:"quantity"`
	Urgency         string          `json:"urgency"`
	Status          string          `json:"status"`
	PatientName     string          `json:"patient_name,omitempty"`
	Diagnosis       string          `json:"diagnosis,omitempty"`
	StaffNotes      string          `json:"staff_notes,omitempty"`
	NeededBy        *time.Time      `json:"needed_by,omitempty"`
	FulfilledAt     *time.Time      `json:"fulfilled_at,omitempty"`
}

// ToBloodRequestResponse converts a domain request to its API representation
func ToBloodRequestResponse(r *request.BloodRequest) BloodRequestResponse {
	return BloodRequestResponse{
		ID:              r.ID,
		MedicalCenterID: r.MedicalCenterID,
		BloodTypeID:     r.BloodTypeID,
		BloodType:       r.BloodTypeName,
		Quantity:        r.Quantity,
		Urgency:         string(r.Urgency),
		Status:          string(r.Status),
		PatientName:     r.PatientName,
		Diagnosis:       r.Diagnosis,
		StaffNotes:      r.StaffNotes,
		NeededBy:        r.NeededBy,
		FulfilledAt:     r.FulfilledAt,
	}
}

// ToBloodRequestResponses converts a slice of requests
func ToBloodRequestResponses(requests []request.BloodRequest) []BloodRequestResponse {
	responses := make([]BloodRequestResponse, len(requests))
	for i := range requests {
		responses[i] = ToBloodRequestResponse(&requests[i])
	}
	return responses
}

// ApprovalResponse reports an approval with the units reserved for it
type ApprovalResponse struct {
	Request       BloodRequestResponse `json:"request"`
	ReservedUnits []uuid.UUID          `json:"reserved_units"`
	TotalReserved decimal.Decimal      `json:"total_reserved"`
	Shortfall     decimal.Decimal      `json:"shortfall"`
}
