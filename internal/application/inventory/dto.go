package inventory

import (
	"time"

	"github.com/bloodbank/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RegisterUnitRequest is the input for registering a collected unit
type RegisterUnitRequest struct {
	BloodTypeID     uuid.UUID       `json:"blood_type_id" binding:"required"`
	MedicalCenterID uuid.UUID       `json:"medical_center_id" binding:"required"`
	DonorID         *uuid.UUID      `json:"donor_id,omitempty"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	CollectedAt     *time.Time      `json:"collected_at,omitempty"`
	ExpiresAt       *time.Time      `json:"expires_at,omitempty"`
	BatchNumber     string          `json:"batch_number,omitempty"`
	StorageTemp     string          `json:"storage_temp,omitempty"`
}

// CompleteTestingRequest reports the outcome of the quality check
type CompleteTestingRequest struct {
	Passed bool `json:"passed"`
}

// FindCompatibleRequest is the input for a compatibility search
type FindCompatibleRequest struct {
	BloodType string          `json:"blood_type" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// BloodUnitResponse is the API representation of a blood unit
type BloodUnitResponse struct {
	ID              uuid.UUID       `json:"id"`
	BatchNumber     string          `json:"batch_number"`
	BloodTypeID     uuid.UUID       `json:"blood_type_id"`
	BloodType       string          `json:"blood_type,omitempty"`
	MedicalCenterID uuid.UUID       `json:"medical_center_id"`
	DonorID         *uuid.UUID      `json:"donor_id,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	Status          string          `json:"status"`
	StorageTemp     string          `json:"storage_temp"`
	CollectedAt     time.Time       `json:"collected_at"`
	ExpiresAt       time.Time       `json:"expires_at"`
	DaysUntilExpiry int             `json:"days_until_expiry"`
	NearExpiry      bool            `json:"near_expiry"`
	ReservedFor     *uuid.UUID      `json:"reserved_for,omitempty"`
	UsedAt          *time.Time      `json:"used_at,omitempty"`
	Version         int             `json:"version"`
}

// ToBloodUnitResponse converts a domain unit to its API representation
func ToBloodUnitResponse(unit *inventory.BloodUnit, now time.Time) BloodUnitResponse {
	return BloodUnitResponse{
		ID:              unit.ID,
		BatchNumber:     unit.BatchNumber,
		BloodTypeID:     unit.BloodTypeID,
		BloodType:       unit.BloodTypeName(),
		MedicalCenterID: unit.MedicalCenterID,
		DonorID:         unit.DonorID,
		Quantity:        unit.Quantity,
		Status:          unit.Status.String(),
		StorageTemp:     unit.StorageTemp,
		CollectedAt:     unit.CollectedAt,
		ExpiresAt:       unit.ExpiresAt,
		DaysUntilExpiry: unit.DaysUntilExpiry(now),
		NearExpiry:      unit.IsNearExpiry(now),
		ReservedFor:     unit.ReservedFor,
		UsedAt:          unit.UsedAt,
		Version:         unit.Version,
	}
}

// ToBloodUnitResponses converts a slice of units
func ToBloodUnitResponses(units []inventory.BloodUnit, now time.Time) []BloodUnitResponse {
	responses := make([]BloodUnitResponse, len(units))
	for i := range units {
		responses[i] = ToBloodUnitResponse(&units[i], now)
	}
	return responses
}

// CompatibleBloodResponse is the outcome of a compatibility search
type CompatibleBloodResponse struct {
	RequestedType   string              `json:"requested_type"`
	CompatibleTypes []string            `json:"compatible_types"`
	Units           []BloodUnitResponse `json:"units"`
	Requested       decimal.Decimal     `json:"requested"`
	TotalSelected   decimal.Decimal     `json:"total_selected"`
	Shortfall       decimal.Decimal     `json:"shortfall"`
	FullyFulfilled  bool                `json:"fully_fulfilled"`
}

// SweepResult reports the outcome of an expiry sweep
type SweepResult struct {
	Scanned int `json:"scanned"`
	Expired int `json:"expired"`
}
