package donation

import (
	"time"

	"github.com/bloodbank/backend/internal/domain/appointment"
	"github.com/bloodbank/backend/internal/domain/donor"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RegisterDonorRequest is the input for donor registration
type RegisterDonorRequest struct {
	FullName    string          `json:"full_name" binding:"required"`
	Email       string          `json:"email" binding:"required,email"`
	Phone       string          `json:"phone,omitempty"`
	DateOfBirth time.Time       `json:"date_of_birth" binding:"required"`
	Gender      string          `json:"gender" binding:"required"`
	WeightKg    decimal.Decimal `json:"weight_kg" binding:"required"`
	Address     string          `json:"address,omitempty"`
	City        string          `json:"city,omitempty"`
	BloodType   string          `json:"blood_type" binding:"required"`
}

// BookAppointmentRequest is the input for booking a donation slot
type BookAppointmentRequest struct {
	DonorID         uuid.UUID `json:"donor_id" binding:"required"`
	MedicalCenterID uuid.UUID `json:"medical_center_id" binding:"required"`
	ScheduledAt     time.Time `json:"scheduled_at" binding:"required"`
	Notes           string    `json:"notes,omitempty"`
}

// CompleteAppointmentRequest is the input for closing a donation visit
type CompleteAppointmentRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// DonorResponse is the API representation of a donor
type DonorResponse struct {
	ID                uuid.UUID       `json:"id"`
	FullName          string          `json:"full_name"`
	Email             string          `json:"email"`
	Phone             string          `json:"phone,omitempty"`
	DateOfBirth       time.Time       `json:"date_of_birth"`
	Gender            string          `json:"gender"`
	WeightKg          decimal.Decimal `json:"weight_kg"`
	City              string          `json:"city,omitempty"`
	BloodTypeID       uuid.UUID       `json:"blood_type_id"`
	BloodType         string          `json:"blood_type,omitempty"`
	IsAvailable       bool            `json:"is_available"`
	TotalDonations    int             `json:"total_donations"`
	TotalBloodDonated decimal.Decimal `json:"total_blood_donated"`
	LastDonationAt    *time.Time      `json:"last_donation_at,omitempty"`
}

// ToDonorResponse converts a domain donor to its API representation
func ToDonorResponse(d *donor.Donor, bloodTypeName string) DonorResponse {
	return DonorResponse{
		ID:                d.ID,
		FullName:          d.FullName,
		Email:             d.Email,
		Phone:             d.Phone,
		DateOfBirth:       d.DateOfBirth,
		Gender:            string(d.Gender),
		WeightKg:          d.WeightKg,
		City:              d.City,
		BloodTypeID:       d.BloodTypeID,
		BloodType:         bloodTypeName,
		IsAvailable:       d.IsAvailable,
		TotalDonations:    d.TotalDonations,
		TotalBloodDonated: d.TotalBloodDonated,
		LastDonationAt:    d.LastDonationAt,
	}
}

// EligibilityResponse reports whether and when a donor may donate
type EligibilityResponse struct {
	Eligible              bool     `json:"eligible"`
	Reasons               []string `json:"reasons,omitempty"`
	DaysUntilNextDonation int      `json:"days_until_next_donation"`
}

// AppointmentResponse is the API representation of an appointment
type AppointmentResponse struct {
	ID              uuid.UUID  `json:"id"`
	DonorID         uuid.UUID  `json:"donor_id"`
	MedicalCenterID uuid.UUID  `json:"medical_center_id"`
	ScheduledAt     time.Time  `json:"scheduled_at"`
	Status          string     `json:"status"`
	Notes           string     `json:"notes,omitempty"`
	StaffNotes      string     `json:"staff_notes,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// ToAppointmentResponse converts a domain appointment to its API representation
func ToAppointmentResponse(a *appointment.DonationAppointment) AppointmentResponse {
	return AppointmentResponse{
		ID:              a.ID,
		DonorID:         a.DonorID,
		MedicalCenterID: a.MedicalCenterID,
		ScheduledAt:     a.ScheduledAt,
		Status:          string(a.Status),
		Notes:           a.Notes,
		StaffNotes:      a.StaffNotes,
		CompletedAt:     a.CompletedAt,
	}
}

// ToAppointmentResponses converts a slice of appointments
func ToAppointmentResponses(appointments []appointment.DonationAppointment) []AppointmentResponse {
	responses := make([]AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = ToAppointmentResponse(&appointments[i])
	}
	return responses
}

// CompletedDonationResponse reports the outcome of a completed visit
type CompletedDonationResponse struct {
	Appointment AppointmentResponse `json:"appointment"`
	Donor       DonorResponse       `json:"donor"`
	BloodUnitID uuid.UUID           `json:"blood_unit_id"`
	BatchNumber string              `json:"batch_number"`
}
