package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bloodbank/backend/internal/domain/inventory"
	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBloodUnitRepository implements BloodUnitRepository using GORM
type GormBloodUnitRepository struct {
	db *gorm.DB
}

// NewGormBloodUnitRepository creates a new GormBloodUnitRepository
func NewGormBloodUnitRepository(db *gorm.DB) *GormBloodUnitRepository {
	return &GormBloodUnitRepository{db: db}
}

// FindByID finds a blood unit by its ID
func (r *GormBloodUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.BloodUnit, error) {
	var unit inventory.BloodUnit
	if err := r.db.WithContext(ctx).Preload("BloodType").First(&unit, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &unit, nil
}

// FindByBatchNumber finds a blood unit by its batch number
func (r *GormBloodUnitRepository) FindByBatchNumber(ctx context.Context, batchNumber string) (*inventory.BloodUnit, error) {
	var unit inventory.BloodUnit
	if err := r.db.WithContext(ctx).Preload("BloodType").
		First(&unit, "batch_number = ?", batchNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &unit, nil
}

// FindAll finds all blood units matching the filter
func (r *GormBloodUnitRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.BloodUnit, error) {
	var units []inventory.BloodUnit
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.BloodUnit{}).Preload("BloodType"), filter)
	if err := query.Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// FindByStatus finds all units with the given status
func (r *GormBloodUnitRepository) FindByStatus(ctx context.Context, status inventory.BloodUnitStatus, filter shared.Filter) ([]inventory.BloodUnit, error) {
	var units []inventory.BloodUnit
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.BloodUnit{}).Preload("BloodType").
			Where("status = ?", status),
		filter,
	)
	if err := query.Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// FindAvailableByTypes finds usable units whose blood type name is in the
// given set, soonest expiry first
func (r *GormBloodUnitRepository) FindAvailableByTypes(ctx context.Context, typeNames []string, now time.Time) ([]inventory.BloodUnit, error) {
	if len(typeNames) == 0 {
		return []inventory.BloodUnit{}, nil
	}
	var units []inventory.BloodUnit
	if err := r.db.WithContext(ctx).
		Joins("JOIN blood_types ON blood_types.id = blood_units.blood_type_id").
		Where("blood_units.status = ?", inventory.StatusAvailable).
		Where("blood_units.expires_at > ?", now).
		Where("blood_types.name IN ?", typeNames).
		Preload("BloodType").
		Order("blood_units.expires_at ASC").
		Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// FindExpiredCandidates finds units past their expiry that the sweep still
// needs to transition
func (r *GormBloodUnitRepository) FindExpiredCandidates(ctx context.Context, now time.Time) ([]inventory.BloodUnit, error) {
	var units []inventory.BloodUnit
	if err := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Where("status NOT IN ?", []inventory.BloodUnitStatus{
			inventory.StatusUsed, inventory.StatusExpired, inventory.StatusRejected,
		}).
		Order("expires_at ASC").
		Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// FindNearExpiry finds non-expired units expiring within the window
func (r *GormBloodUnitRepository) FindNearExpiry(ctx context.Context, now time.Time, window time.Duration) ([]inventory.BloodUnit, error) {
	var units []inventory.BloodUnit
	if err := r.db.WithContext(ctx).
		Where("status = ?", inventory.StatusAvailable).
		Where("expires_at > ?", now).
		Where("expires_at <= ?", now.Add(window)).
		Preload("BloodType").
		Order("expires_at ASC").
		Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// FindReservedFor finds the units currently reserved for a blood request
func (r *GormBloodUnitRepository) FindReservedFor(ctx context.Context, requestID uuid.UUID) ([]inventory.BloodUnit, error) {
	var units []inventory.BloodUnit
	if err := r.db.WithContext(ctx).
		Where("status = ?", inventory.StatusReserved).
		Where("reserved_for = ?", requestID).
		Preload("BloodType").
		Order("expires_at ASC").
		Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// FindByDonor finds all units collected from a donor
func (r *GormBloodUnitRepository) FindByDonor(ctx context.Context, donorID uuid.UUID, filter shared.Filter) ([]inventory.BloodUnit, error) {
	var units []inventory.BloodUnit
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.BloodUnit{}).Preload("BloodType").
			Where("donor_id = ?", donorID),
		filter,
	)
	if err := query.Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// Save creates or updates a blood unit
func (r *GormBloodUnitRepository) Save(ctx context.Context, unit *inventory.BloodUnit) error {
	return r.db.WithContext(ctx).Omit("BloodType").Save(unit).Error
}

// SaveWithLock persists the unit with a compare-and-swap on its version.
// The domain layer increments Version before persisting, so the row must
// still carry the previous version for the update to land.
func (r *GormBloodUnitRepository) SaveWithLock(ctx context.Context, unit *inventory.BloodUnit) error {
	result := r.db.WithContext(ctx).
		Model(&inventory.BloodUnit{}).
		Where("id = ? AND version = ?", unit.ID, unit.Version-1).
		Select("*").Omit("id", "created_at", "BloodType").
		Updates(unit)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Count counts units matching the filter
func (r *GormBloodUnitRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&inventory.BloodUnit{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormBloodUnitRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("expires_at ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormBloodUnitRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("batch_number LIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "blood_type_id":
			query = query.Where("blood_type_id = ?", value)
		case "medical_center_id":
			query = query.Where("medical_center_id = ?", value)
		case "donor_id":
			query = query.Where("donor_id = ?", value)
		}
	}

	return query
}

// Ensure GormBloodUnitRepository implements BloodUnitRepository
var _ inventory.BloodUnitRepository = (*GormBloodUnitRepository)(nil)
