package appointment

import (
	"context"
	"time"

	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AppointmentRepository defines the interface for appointment persistence
type AppointmentRepository interface {
	// FindByID finds an appointment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*DonationAppointment, error)

	// FindByDonor finds a donor's appointments
	FindByDonor(ctx context.Context, donorID uuid.UUID, filter shared.Filter) ([]DonationAppointment, error)

	// FindByCenter finds a center's appointments
	FindByCenter(ctx context.Context, centerID uuid.UUID, filter shared.Filter) ([]DonationAppointment, error)

	// FindOpenByDonor finds the donor's pending and confirmed appointments
	FindOpenByDonor(ctx context.Context, donorID uuid.UUID) ([]DonationAppointment, error)

	// FindScheduledBetween finds confirmed appointments inside a time range
	FindScheduledBetween(ctx context.Context, centerID uuid.UUID, from, to time.Time) ([]DonationAppointment, error)

	// Save creates or updates an appointment
	Save(ctx context.Context, a *DonationAppointment) error

	// SaveWithLock persists the appointment with a compare-and-swap on its version
	SaveWithLock(ctx context.Context, a *DonationAppointment) error

	// Count counts appointments matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
