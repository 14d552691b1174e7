package inventory

import (
	"context"
	"time"

	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BloodUnitRepository defines the interface for blood unit persistence.
//
// Status mutations MUST be persisted with SaveWithLock: Reserve and its
// siblings are check-then-act sequences, and the version check is what keeps
// two concurrent callers from both reserving the same unit.
type BloodUnitRepository interface {
	// FindByID finds a blood unit by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*BloodUnit, error)

	// FindByBatchNumber finds a blood unit by its batch number
	FindByBatchNumber(ctx context.Context, batchNumber string) (*BloodUnit, error)

	// FindAll finds all blood units matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]BloodUnit, error)

	// FindByStatus finds all units with the given status
	FindByStatus(ctx context.Context, status BloodUnitStatus, filter shared.Filter) ([]BloodUnit, error)

	// FindAvailableByTypes finds usable units (Available, not expired at the
	// given time) whose blood type name is in the given set, ordered by
	// ascending expiry
	FindAvailableByTypes(ctx context.Context, typeNames []string, now time.Time) ([]BloodUnit, error)

	// FindExpiredCandidates finds units past their expiry that the sweep
	// still needs to transition (status not Used, Expired or Rejected)
	FindExpiredCandidates(ctx context.Context, now time.Time) ([]BloodUnit, error)

	// FindNearExpiry finds non-expired units expiring within the window
	FindNearExpiry(ctx context.Context, now time.Time, window time.Duration) ([]BloodUnit, error)

	// FindReservedFor finds the units currently reserved for a blood request
	FindReservedFor(ctx context.Context, requestID uuid.UUID) ([]BloodUnit, error)

	// FindByDonor finds all units collected from a donor
	FindByDonor(ctx context.Context, donorID uuid.UUID, filter shared.Filter) ([]BloodUnit, error)

	// Save creates or updates a blood unit
	Save(ctx context.Context, unit *BloodUnit) error

	// SaveWithLock persists the unit with a compare-and-swap on its version,
	// returning ErrConcurrencyConflict when another writer got there first
	SaveWithLock(ctx context.Context, unit *BloodUnit) error

	// Count counts units matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
