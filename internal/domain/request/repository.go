package request

import (
	"context"

	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BloodRequestRepository defines the interface for blood request persistence
type BloodRequestRepository interface {
	// FindByID finds a request by ID
	FindByID(ctx context.Context, id uuid.UUID) (*BloodRequest, error)

	// FindAll finds all requests matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]BloodRequest, error)

	// FindByCenter finds a medical center's requests
	FindByCenter(ctx context.Context, centerID uuid.UUID, filter shared.Filter) ([]BloodRequest, error)

	// FindByStatus finds all requests with the given status
	FindByStatus(ctx context.Context, status RequestStatus, filter shared.Filter) ([]BloodRequest, error)

	// Save creates or updates a request
	Save(ctx context.Context, r *BloodRequest) error

	// SaveWithLock persists the request with a compare-and-swap on its version
	SaveWithLock(ctx context.Context, r *BloodRequest) error

	// Count counts requests matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
