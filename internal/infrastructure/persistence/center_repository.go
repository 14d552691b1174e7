package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/bloodbank/backend/internal/domain/center"
	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMedicalCenterRepository implements MedicalCenterRepository using GORM
type GormMedicalCenterRepository struct {
	db *gorm.DB
}

// NewGormMedicalCenterRepository creates a new GormMedicalCenterRepository
func NewGormMedicalCenterRepository(db *gorm.DB) *GormMedicalCenterRepository {
	return &GormMedicalCenterRepository{db: db}
}

// FindByID finds a center by ID
func (r *GormMedicalCenterRepository) FindByID(ctx context.Context, id uuid.UUID) (*center.MedicalCenter, error) {
	var c center.MedicalCenter
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByName finds a center by its name
func (r *GormMedicalCenterRepository) FindByName(ctx context.Context, name string) (*center.MedicalCenter, error) {
	var c center.MedicalCenter
	if err := r.db.WithContext(ctx).First(&c, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindAll finds all centers matching the filter
func (r *GormMedicalCenterRepository) FindAll(ctx context.Context, filter shared.Filter) ([]center.MedicalCenter, error) {
	var centers []center.MedicalCenter
	query := r.applyFilter(r.db.WithContext(ctx).Model(&center.MedicalCenter{}), filter)
	if err := query.Find(&centers).Error; err != nil {
		return nil, err
	}
	return centers, nil
}

// FindActiveByCity finds active centers in a city
func (r *GormMedicalCenterRepository) FindActiveByCity(ctx context.Context, city string) ([]center.MedicalCenter, error) {
	var centers []center.MedicalCenter
	if err := r.db.WithContext(ctx).
		Where("city = ? AND is_active = ?", city, true).
		Order("name ASC").
		Find(&centers).Error; err != nil {
		return nil, err
	}
	return centers, nil
}

// Save creates or updates a center
func (r *GormMedicalCenterRepository) Save(ctx context.Context, c *center.MedicalCenter) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// Count counts centers matching the filter
func (r *GormMedicalCenterRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&center.MedicalCenter{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormMedicalCenterRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		query = query.Order("name ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormMedicalCenterRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR city LIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "city":
			query = query.Where("city = ?", value)
		case "county":
			query = query.Where("county = ?", value)
		case "is_active":
			query = query.Where("is_active = ?", value)
		}
	}

	return query
}

// Ensure GormMedicalCenterRepository implements MedicalCenterRepository
var _ center.MedicalCenterRepository = (*GormMedicalCenterRepository)(nil)
