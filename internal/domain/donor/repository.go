package donor

import (
	"context"

	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DonorRepository defines the interface for donor persistence
type DonorRepository interface {
	// FindByID finds a donor by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Donor, error)

	// FindByEmail finds a donor by email
	FindByEmail(ctx context.Context, email string) (*Donor, error)

	// FindAll finds all donors matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Donor, error)

	// FindAvailableByBloodType finds opted-in donors with the given blood type
	FindAvailableByBloodType(ctx context.Context, bloodTypeID uuid.UUID, filter shared.Filter) ([]Donor, error)

	// Save creates or updates a donor
	Save(ctx context.Context, d *Donor) error

	// SaveWithLock persists the donor with a compare-and-swap on its version
	SaveWithLock(ctx context.Context, d *Donor) error

	// Count counts donors matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
