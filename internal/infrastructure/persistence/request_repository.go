package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/bloodbank/backend/internal/domain/request"
	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBloodRequestRepository implements BloodRequestRepository using GORM
type GormBloodRequestRepository struct {
	db *gorm.DB
}

// NewGormBloodRequestRepository creates a new GormBloodRequestRepository
func NewGormBloodRequestRepository(db *gorm.DB) *GormBloodRequestRepository {
	return &GormBloodRequestRepository{db: db}
}

// FindByID finds a request by ID
func (r *GormBloodRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*request.BloodRequest, error) {
	var req request.BloodRequest
	if err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// FindAll finds all requests matching the filter
func (r *GormBloodRequestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]request.BloodRequest, error) {
	var requests []request.BloodRequest
	query := r.applyFilter(r.db.WithContext(ctx).Model(&request.BloodRequest{}), filter)
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// FindByCenter finds a medical center's requests
func (r *GormBloodRequestRepository) FindByCenter(ctx context.Context, centerID uuid.UUID, filter shared.Filter) ([]request.BloodRequest, error) {
	var requests []request.BloodRequest
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&request.BloodRequest{}).
			Where("medical_center_id = ?", centerID),
		filter,
	)
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// FindByStatus finds all requests with the given status
func (r *GormBloodRequestRepository) FindByStatus(ctx context.Context, status request.RequestStatus, filter shared.Filter) ([]request.BloodRequest, error) {
	var requests []request.BloodRequest
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&request.BloodRequest{}).
			Where("status = ?", status),
		filter,
	)
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// Save creates or updates a request
func (r *GormBloodRequestRepository) Save(ctx context.Context, req *request.BloodRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

// SaveWithLock persists the request with a compare-and-swap on its version
func (r *GormBloodRequestRepository) SaveWithLock(ctx context.Context, req *request.BloodRequest) error {
	result := r.db.WithContext(ctx).
		Model(&request.BloodRequest{}).
		Where("id = ? AND version = ?", req.ID, req.Version-1).
		Select("*").Omit("id", "created_at").
		Updates(req)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Count counts requests matching the filter
func (r *GormBloodRequestRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&request.BloodRequest{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormBloodRequestRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormBloodRequestRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("patient_name LIKE ? OR diagnosis LIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "urgency":
			query = query.Where("urgency = ?", value)
		case "blood_type_name":
			query = query.Where("blood_type_name = ?", value)
		case "medical_center_id":
			query = query.Where("medical_center_id = ?", value)
		}
	}

	return query
}

// Ensure GormBloodRequestRepository implements BloodRequestRepository
var _ request.BloodRequestRepository = (*GormBloodRequestRepository)(nil)
