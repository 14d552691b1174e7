package donor

import (
	"time"

	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types for donor lifecycle
const (
	EventTypeDonorRegistered  = "donor.registered"
	EventTypeDonationRecorded = "donor.donation_recorded"
)

const aggregateTypeDonor = "Donor"

// DonorRegisteredEvent is emitted when a donor signs up
type DonorRegisteredEvent struct {
	shared.BaseDomainEvent
	FullName    string    `json:"full_name"`
	BloodTypeID uuid.UUID `json:"blood_type_id"`
}

// NewDonorRegisteredEvent creates a new DonorRegisteredEvent
func NewDonorRegisteredEvent(d *Donor) *DonorRegisteredEvent {
	return &DonorRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDonorRegistered, aggregateTypeDonor, d.ID),
		FullName:        d.FullName,
		BloodTypeID:     d.BloodTypeID,
	}
}

// DonationRecordedEvent is emitted when a completed donation is credited to
// the donor's history
type DonationRecordedEvent struct {
	shared.BaseDomainEvent
	Quantity       decimal.Decimal `json:"quantity"`
	DonatedAt      time.Time       `json:"donated_at"`
	TotalDonations int             `json:"total_donations"`
}

// NewDonationRecordedEvent creates a new DonationRecordedEvent
func NewDonationRecordedEvent(d *Donor, quantity decimal.Decimal, donatedAt time.Time) *DonationRecordedEvent {
	return &DonationRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDonationRecorded, aggregateTypeDonor, d.ID),
		Quantity:        quantity,
		DonatedAt:       donatedAt,
		TotalDonations:  d.TotalDonations,
	}
}
