package blood

import (
	"context"

	"github.com/google/uuid"
)

// BloodTypeRepository defines the interface for blood type reference data
type BloodTypeRepository interface {
	// FindByID finds a blood type by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*BloodType, error)

	// FindByName finds a blood type by its canonical name (e.g. "O-")
	FindByName(ctx context.Context, name string) (*BloodType, error)

	// FindAll returns all blood types
	FindAll(ctx context.Context) ([]BloodType, error)

	// Save creates or updates a blood type
	Save(ctx context.Context, bt *BloodType) error
}
