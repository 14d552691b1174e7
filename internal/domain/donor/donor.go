package donor

import (
	"strings"
	"time"

	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Gender of a donor
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// IsValid checks if the gender is a known value
func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Donor represents a registered blood donor
type Donor struct {
	shared.BaseAggregateRoot
	FullName    string          `gorm:"type:varchar(255);not null" json:"full_name"`
	Email       string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone       string          `gorm:"type:varchar(32)" json:"phone"`
	DateOfBirth time.Time       `gorm:"not null" json:"date_of_birth"`
	Gender      Gender          `gorm:"type:varchar(16);not null" json:"gender"`
	WeightKg    decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"weight_kg"`
	Address     string          `gorm:"type:text" json:"address"`
	City        string          `gorm:"type:varchar(128)" json:"city"`

	BloodTypeID uuid.UUID `gorm:"type:uuid;not null;index" json:"blood_type_id"`

	// IsAvailable is the donor's own opt-in flag, independent of eligibility
	IsAvailable bool `gorm:"default:true" json:"is_available"`

	TotalDonations    int             `gorm:"default:0" json:"total_donations"`
	TotalBloodDonated decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"total_blood_donated"`
	LastDonationAt    *time.Time      `json:"last_donation_at,omitempty"`
}

// TableName returns the table name for GORM
func (Donor) TableName() string {
	return "donors"
}

// NewDonorParams holds the parameters for registering a donor
type NewDonorParams struct {
	FullName    string
	Email       string
	Phone       string
	DateOfBirth time.Time
	Gender      Gender
	WeightKg    decimal.Decimal
	Address     string
	City        string
	BloodTypeID uuid.UUID
}

// NewDonor registers a new donor
func NewDonor(params NewDonorParams) (*Donor, error) {
	fullName := strings.TrimSpace(params.FullName)
	if fullName == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Donor name cannot be empty")
	}
	email := strings.ToLower(strings.TrimSpace(params.Email))
	if email == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Donor email cannot be empty")
	}
	if params.DateOfBirth.IsZero() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Date of birth is required")
	}
	if !params.Gender.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid gender")
	}
	if params.WeightKg.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Weight must be positive")
	}
	if params.BloodTypeID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Blood type is required")
	}

	d := &Donor{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FullName:          fullName,
		Email:             email,
		Phone:             strings.TrimSpace(params.Phone),
		DateOfBirth:       params.DateOfBirth,
		Gender:            params.Gender,
		WeightKg:          params.WeightKg,
		Address:           params.Address,
		City:              params.City,
		BloodTypeID:       params.BloodTypeID,
		IsAvailable:       true,
		TotalBloodDonated: decimal.Zero,
	}
	d.AddDomainEvent(NewDonorRegisteredEvent(d))
	return d, nil
}

// Age returns the donor's age in whole years at the given time
func (d *Donor) Age(now time.Time) int {
	age := now.Year() - d.DateOfBirth.Year()
	// Not yet had this year's birthday
	birthdayThisYear := time.Date(now.Year(), d.DateOfBirth.Month(), d.DateOfBirth.Day(), 0, 0, 0, 0, now.Location())
	if now.Before(birthdayThisYear) {
		age--
	}
	return age
}

// UpdateProfile updates the donor's mutable contact and physical details
func (d *Donor) UpdateProfile(fullName, phone, address, city string, weightKg decimal.Decimal, now time.Time) error {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Donor name cannot be empty")
	}
	if weightKg.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Weight must be positive")
	}
	d.FullName = fullName
	d.Phone = strings.TrimSpace(phone)
	d.Address = address
	d.City = city
	d.WeightKg = weightKg
	d.touch(now)
	return nil
}

// SetAvailability flips the donor's opt-in flag
func (d *Donor) SetAvailability(available bool, now time.Time) {
	if d.IsAvailable == available {
		return
	}
	d.IsAvailable = available
	d.touch(now)
}

// RecordDonation updates the donor's history after a completed donation.
// The caller persists the donor and the new blood unit in one transaction.
func (d *Donor) RecordDonation(quantity decimal.Decimal, donatedAt time.Time) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Donation quantity must be positive")
	}
	d.TotalDonations++
	d.TotalBloodDonated = d.TotalBloodDonated.Add(quantity)
	d.LastDonationAt = &donatedAt
	d.touch(donatedAt)
	d.AddDomainEvent(NewDonationRecordedEvent(d, quantity, donatedAt))
	return nil
}

func (d *Donor) touch(now time.Time) {
	d.UpdatedAt = now
	d.IncrementVersion()
}
