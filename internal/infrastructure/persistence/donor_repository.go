package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/bloodbank/backend/internal/domain/donor"
	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDonorRepository implements DonorRepository using GORM
type GormDonorRepository struct {
	db *gorm.DB
}

// NewGormDonorRepository creates a new GormDonorRepository
func NewGormDonorRepository(db *gorm.DB) *GormDonorRepository {
	return &GormDonorRepository{db: db}
}

// FindByID finds a donor by ID
func (r *GormDonorRepository) FindByID(ctx context.Context, id uuid.UUID) (*donor.Donor, error) {
	var d donor.Donor
	if err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// FindByEmail finds a donor by email
func (r *GormDonorRepository) FindByEmail(ctx context.Context, email string) (*donor.Donor, error) {
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	var d donor.Donor
	if err := r.db.WithContext(ctx).
		First(&d, "email = ?", strings.ToLower(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// FindAll finds all donors matching the filter
func (r *GormDonorRepository) FindAll(ctx context.Context, filter shared.Filter) ([]donor.Donor, error) {
	var donors []donor.Donor
	query := r.applyFilter(r.db.WithContext(ctx).Model(&donor.Donor{}), filter)
	if err := query.Find(&donors).Error; err != nil {
		return nil, err
	}
	return donors, nil
}

// FindAvailableByBloodType finds opted-in donors with the given blood type
func (r *GormDonorRepository) FindAvailableByBloodType(ctx context.Context, bloodTypeID uuid.UUID, filter shared.Filter) ([]donor.Donor, error) {
	var donors []donor.Donor
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&donor.Donor{}).
			Where("blood_type_id = ? AND is_available = ?", bloodTypeID, true),
		filter,
	)
	if err := query.Find(&donors).Error; err != nil {
		return nil, err
	}
	return donors, nil
}

// Save creates or updates a donor
func (r *GormDonorRepository) Save(ctx context.Context, d *donor.Donor) error {
	return r.db.WithContext(ctx).Save(d).Error
}

// SaveWithLock persists the donor with a compare-and-swap on its version
func (r *GormDonorRepository) SaveWithLock(ctx context.Context, d *donor.Donor) error {
	result := r.db.WithContext(ctx).
		Model(&donor.Donor{}).
		Where("id = ? AND version = ?", d.ID, d.Version-1).
		Select("*").Omit("id", "created_at").
		Updates(d)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Count counts donors matching the filter
func (r *GormDonorRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&donor.Donor{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormDonorRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		query = query.Order("full_name ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormDonorRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("full_name LIKE ? OR email LIKE ? OR phone LIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "blood_type_id":
			query = query.Where("blood_type_id = ?", value)
		case "city":
			query = query.Where("city = ?", value)
		case "is_available":
			query = query.Where("is_available = ?", value)
		}
	}

	return query
}

// Ensure GormDonorRepository implements DonorRepository
var _ donor.DonorRepository = (*GormDonorRepository)(nil)
